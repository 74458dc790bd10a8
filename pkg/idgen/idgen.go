package idgen

import (
	"log"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// snowflake id生成器。仓位、流水、成交记录的id都从这里取，
// 保证同一笔操作内先拿到id再落库（成交记录在提交前就要引用仓位id）。

var (
	node *snowflake.Node
	once sync.Once
)

func Init(nodeID int64) {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(nodeID)
		if err != nil {
			log.Fatalf("failed to create snowflake node: %v", err)
		}
	})
}

func NextID() int64 {
	if node == nil {
		panic("Please initialize the snowflake node first!")
	}
	return node.Generate().Int64()
}
