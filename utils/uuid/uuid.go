package uuid

import (
	"strings"

	guuid "github.com/google/uuid"
)

// GenUUID 生成不带连字符的uuid
func GenUUID() string {
	return strings.ReplaceAll(guuid.NewString(), "-", "")
}

// GenUUID16 生成16位短id，用于请求id等非全局唯一场景
func GenUUID16() string {
	return GenUUID()[:16]
}
