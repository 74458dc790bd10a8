package kafka

import (
	"context"
	"errors"
	"log"

	"voltrix/internal/consts"

	"github.com/segmentio/kafka-go"
)

// Kafka 生产者服务
// 定义接口，方便测试和替换
type ProducerService interface {
	Produce(ctx context.Context, topic string, key []byte, payload []byte) error
	Close()
}

type kafkaProducer struct {
	tickerWriter *kafka.Writer // 高频 tick
	candleWriter *kafka.Writer // K线更新
	tradeWriter  *kafka.Writer // 成交事件
}

func NewKafkaProducer(brokerURL string) ProducerService {
	tickerWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokerURL),
		Topic:    consts.KafkaTopicTicker,
		Balancer: &kafka.LeastBytes{}, // 保证写入负载均衡
	}
	candleWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokerURL),
		Topic:    consts.KafkaTopicCandle,
		Balancer: &kafka.LeastBytes{},
	}
	tradeWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokerURL),
		Topic:    consts.KafkaTopicTrade,
		Balancer: &kafka.LeastBytes{},
	}

	return &kafkaProducer{
		tickerWriter: tickerWriter,
		candleWriter: candleWriter,
		tradeWriter:  tradeWriter,
	}
}

// Produce 将已序列化的消息写入指定主题
func (p *kafkaProducer) Produce(ctx context.Context, topic string, key []byte, payload []byte) error {
	var writer *kafka.Writer
	switch topic {
	case consts.KafkaTopicTicker:
		writer = p.tickerWriter
	case consts.KafkaTopicCandle:
		writer = p.candleWriter
	case consts.KafkaTopicTrade:
		writer = p.tradeWriter
	default:
		return errors.New("invalid kafka topic")
	}

	return writer.WriteMessages(ctx, kafka.Message{
		Key:   key, // 使用symbol作为Key，确保相同币种的数据进入同一个 Partition (有序性/关联性)
		Value: payload,
	})
}

func (p *kafkaProducer) Close() {
	if err := p.tickerWriter.Close(); err != nil {
		log.Printf("Error closing Ticker writer: %v", err)
	}
	if err := p.candleWriter.Close(); err != nil {
		log.Printf("Error closing Candle writer: %v", err)
	}
	if err := p.tradeWriter.Close(); err != nil {
		log.Printf("Error closing Trade writer: %v", err)
	}
}
