package lib

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var kafkaProducer *kafka.Producer

func GetKafkaProducer() (*kafka.Producer, error) {
	if kafkaProducer != nil {
		return kafkaProducer, nil
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         "scb-api",
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}
	kafkaProducer = p
	return p, nil
}

// KafkaProduceMessage publishes a JSON payload. Emission failures are the
// caller's to log and swallow: a booking mutation never fails because the
// broker is down.
func KafkaProduceMessage(topic string, payload any) error {
	p, err := GetKafkaProducer()
	if err != nil {
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	deliveryChan := make(chan kafka.Event, 1)
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, deliveryChan)
	if err != nil {
		return err
	}
	e := <-deliveryChan
	if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
		return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
	}
	return nil
}

// KafkaConsume polls the topic and hands each message value to the handler.
// Runs until the process exits; start it from a goroutine at boot.
func KafkaConsume(topic string, groupId string, handler func(value []byte)) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"group.id":          groupId,
		"auto.offset.reset": "smallest",
		"retry.backoff.ms":  100,
	})
	if err != nil {
		log.Printf("[kafka] Error creating consumer: %s\n", err.Error())
		return
	}
	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		log.Printf("[kafka] Error subscribing to %s: %s\n", topic, err.Error())
		return
	}
	log.Printf("[kafka] consuming topic %s...\n", topic)
	for {
		ev := consumer.Poll(100)
		switch e := ev.(type) {
		case *kafka.Message:
			handler(e.Value)
		case kafka.Error:
			fmt.Fprintf(os.Stderr, "%% Error: %v\n", e)
			return
		}
	}
}
