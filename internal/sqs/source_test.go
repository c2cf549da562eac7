package sqs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQueueURL = "https://sqs.eu-west-1.amazonaws.com/000000000000/events"

type fakeAPI struct {
	receiveIn  *sqs.ReceiveMessageInput
	receiveOut *sqs.ReceiveMessageOutput
	receiveErr error

	deleteIn  []*sqs.DeleteMessageInput
	deleteErr error
}

func (f *fakeAPI) ReceiveMessage(_ context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.receiveIn = in
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	if f.receiveOut == nil {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	return f.receiveOut, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleteIn = append(f.deleteIn, in)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &sqs.DeleteMessageOutput{}, nil
}

func newTestSource(api API, cfg Config) *Source {
	if cfg.QueueURL == "" {
		cfg.QueueURL = testQueueURL
	}
	return NewSource(api, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSource_ReceiveRequest(t *testing.T) {
	api := &fakeAPI{}
	src := newTestSource(api, Config{WaitTime: 20 * time.Second, VisibilityTimeout: 45 * time.Second})

	msgs, err := src.Receive(context.Background())

	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.NotNil(t, api.receiveIn)
	assert.Equal(t, testQueueURL, aws.ToString(api.receiveIn.QueueUrl))
	assert.EqualValues(t, 10, api.receiveIn.MaxNumberOfMessages)
	assert.EqualValues(t, 20, api.receiveIn.WaitTimeSeconds)
	assert.EqualValues(t, 45, api.receiveIn.VisibilityTimeout)
}

func TestSource_ReceiveMapsMessages(t *testing.T) {
	api := &fakeAPI{receiveOut: &sqs.ReceiveMessageOutput{
		Messages: []types.Message{
			{MessageId: aws.String("a"), Body: aws.String(`{"n":1}`), ReceiptHandle: aws.String("rh-a")},
			{MessageId: aws.String("b"), Body: aws.String(`{"n":2}`)},
			{MessageId: aws.String("c"), ReceiptHandle: aws.String("rh-c")},
		},
	}}
	src := newTestSource(api, Config{})
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return fixed }

	msgs, err := src.Receive(context.Background())

	require.NoError(t, err)
	require.Len(t, msgs, 2, "message without receipt handle is skipped")

	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, []byte(`{"n":1}`), msgs[0].Body)
	assert.Equal(t, "rh-a", msgs[0].ReceiptHandle)
	assert.Equal(t, fixed, msgs[0].ReceivedAt)

	assert.Equal(t, "c", msgs[1].ID)
	assert.Empty(t, msgs[1].Body)
}

func TestSource_ReceiveError(t *testing.T) {
	api := &fakeAPI{receiveErr: &smithy.GenericAPIError{
		Code:    "AWS.SimpleQueueService.NonExistentQueue",
		Message: "queue does not exist",
	}}
	src := newTestSource(api, Config{})

	_, err := src.Receive(context.Background())

	require.Error(t, err)
	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "ReceiveMessage", opErr.Op)
	assert.Equal(t, "AWS.SimpleQueueService.NonExistentQueue", opErr.Code)
	assert.Contains(t, err.Error(), "NonExistentQueue")
}

func TestSource_Acknowledge(t *testing.T) {
	api := &fakeAPI{}
	src := newTestSource(api, Config{})

	require.NoError(t, src.Acknowledge(context.Background(), "rh-1"))

	require.Len(t, api.deleteIn, 1)
	assert.Equal(t, testQueueURL, aws.ToString(api.deleteIn[0].QueueUrl))
	assert.Equal(t, "rh-1", aws.ToString(api.deleteIn[0].ReceiptHandle))
}

func TestSource_AcknowledgeErrors(t *testing.T) {
	t.Run("empty receipt handle", func(t *testing.T) {
		api := &fakeAPI{}
		src := newTestSource(api, Config{})

		err := src.Acknowledge(context.Background(), "")

		assert.ErrorIs(t, err, ErrEmptyReceiptHandle)
		assert.Empty(t, api.deleteIn)
	})

	t.Run("api error", func(t *testing.T) {
		cause := errors.New("connection reset")
		src := newTestSource(&fakeAPI{deleteErr: cause}, Config{})

		err := src.Acknowledge(context.Background(), "rh-1")

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "", ErrorCode(err))
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{QueueURL: testQueueURL, MaxMessages: 10, WaitTime: 20 * time.Second}, nil},
		{"defaults", Config{QueueURL: testQueueURL}, nil},
		{"missing url", Config{}, ErrMissingQueueURL},
		{"batch too large", Config{QueueURL: testQueueURL, MaxMessages: 11}, ErrInvalidConfig},
		{"wait too long", Config{QueueURL: testQueueURL, WaitTime: 21 * time.Second}, ErrInvalidConfig},
		{"half credentials", Config{QueueURL: testQueueURL, AccessKeyID: "AKIA"}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewClient_Endpoint(t *testing.T) {
	client, err := NewClient(context.Background(), Config{
		QueueURL:        testQueueURL,
		Region:          "eu-west-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        "http://localhost:4566",
	})

	require.NoError(t, err)
	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "http://localhost:4566", aws.ToString(opts.BaseEndpoint))
}
