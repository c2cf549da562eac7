package mq

import (
	"fmt"
	"strings"
)

// declareTopology объявляет exchange и, если задана, очередь с привязкой.
func declareTopology(ch Channel, cfg Config) error {
	err := ch.ExchangeDeclare(
		cfg.Exchange,     // name
		cfg.ExchangeType, // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return brokerError(fmt.Sprintf("declare exchange %s", cfg.Exchange), err)
	}

	if cfg.BindQueue == "" {
		return nil
	}

	_, err = ch.QueueDeclare(
		cfg.BindQueue, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return brokerError(fmt.Sprintf("declare queue %s", cfg.BindQueue), err)
	}

	err = ch.QueueBind(
		cfg.BindQueue,  // queue name
		cfg.RoutingKey, // routing key
		cfg.Exchange,   // exchange
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return brokerError(fmt.Sprintf("bind queue %s to %s", cfg.BindQueue, cfg.Exchange), err)
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo(cfg Config) string {
	cfg = cfg.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, durable)", cfg.Exchange, cfg.ExchangeType)
	if cfg.BindQueue != "" {
		fmt.Fprintf(&b, "\n└── %s [routing: %s]", cfg.BindQueue, cfg.RoutingKey)
	}
	return b.String()
}
