package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestRecorderByKey(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	_ = r.Publish(ctx, SaleCompleted, map[string]int{"items": 2})
	_ = r.Publish(ctx, StockIn, map[string]int{"qty": 5})
	_ = r.Publish(ctx, SaleCompleted, map[string]int{"items": 1})

	if got := len(r.ByKey(SaleCompleted)); got != 2 {
		t.Fatalf("expected 2 sale events, got %d", got)
	}
	if got := len(r.Messages()); got != 3 {
		t.Fatalf("expected 3 messages, got %d", got)
	}
}

func TestAMQPPublisherDelivers(t *testing.T) {
	url := os.Getenv("POS_TEST_AMQP_URL")
	if url == "" {
		t.Skip("set POS_TEST_AMQP_URL to run rabbitmq integration test")
	}

	exchange := "pos.events.test"
	pub, err := NewAMQPPublisher(url, exchange)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })

	conn, err := amqp091.Dial(url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("channel: %v", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		t.Fatalf("queue declare: %v", err)
	}
	if err := ch.QueueBind(q.Name, "sale.*", exchange, false, nil); err != nil {
		t.Fatalf("queue bind: %v", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, SaleCompleted, map[string]string{"total": "12.50"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case d := <-msgs:
		var body map[string]string
		if err := json.Unmarshal(d.Body, &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["total"] != "12.50" {
			t.Fatalf("unexpected body %v", body)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for message")
	}
}
