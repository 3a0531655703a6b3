package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/example/inquiry-intake/internal/models"
	"github.com/example/inquiry-intake/internal/queue"
)

type fakeProducer struct {
	sent    []*sarama.ProducerMessage
	sendErr error
}

func (f *fakeProducer) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	if f.sendErr != nil {
		return 0, 0, f.sendErr
	}
	f.sent = append(f.sent, msg)
	return 2, 41, nil
}

func (f *fakeProducer) Close() error { return nil }

func submissionFixture() models.Submission {
	return models.Submission{
		SubmissionID: "11111111-2222-4333-8444-555555555555",
		Name:         "A",
		Email:        "a@x.com",
		Phone:        "123",
		InquiryType:  "Tour",
		Message:      "Hi",
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaEnqueue(t *testing.T) {
	producer := &fakeProducer{}
	q, err := queue.NewKafkaQueueFromProducer(producer, "inquiries", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	sub := submissionFixture()
	ref, err := q.Enqueue(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}
	if ref != "2-41" {
		t.Fatalf("expected reference to encode partition and offset, got %q", ref)
	}

	if len(producer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(producer.sent))
	}
	msg := producer.sent[0]
	if msg.Topic != "inquiries" {
		t.Fatalf("unexpected topic: %s", msg.Topic)
	}

	key, err := msg.Key.Encode()
	if err != nil {
		t.Fatalf("failed to encode key: %v", err)
	}
	if string(key) != sub.SubmissionID {
		t.Fatalf("expected submission id as partition key, got %q", key)
	}

	value, err := msg.Value.Encode()
	if err != nil {
		t.Fatalf("failed to encode value: %v", err)
	}
	var decoded models.Submission
	if err := json.Unmarshal(value, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.SubmissionID != sub.SubmissionID || decoded.Name != sub.Name {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestKafkaEnqueueSendFailure(t *testing.T) {
	brokerErr := errors.New("not enough replicas")
	producer := &fakeProducer{sendErr: brokerErr}
	q, err := queue.NewKafkaQueueFromProducer(producer, "inquiries", zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, err = q.Enqueue(context.Background(), submissionFixture())
	if !errors.Is(err, brokerErr) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
	if !strings.Contains(err.Error(), "kafka queue") {
		t.Fatalf("expected package prefix on error, got %q", err.Error())
	}
}

func TestKafkaConstructorValidation(t *testing.T) {
	if _, err := queue.NewKafkaQueueFromProducer(nil, "inquiries", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for nil producer")
	}
	if _, err := queue.NewKafkaQueueFromProducer(&fakeProducer{}, "", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty topic")
	}
	if _, err := queue.NewKafkaQueue(nil, "inquiries", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty broker list")
	}
}
