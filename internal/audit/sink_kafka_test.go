package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairworkly/pkg/platform/circuit"
)

type fakeProducer struct {
	err   error
	calls int
	keys  []string
}

func (p *fakeProducer) Publish(_ context.Context, key string, _ []byte) error {
	p.calls++
	p.keys = append(p.keys, key)
	return p.err
}

func newTestSink(producer recordProducer) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		breaker:  circuit.New("kafka-audit", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
}

func TestKafkaSinkKeysByRunID(t *testing.T) {
	producer := &fakeProducer{}
	sink := newTestSink(producer)

	err := sink.Write(context.Background(), Event{RunID: "r-7", Action: string(EventValidationCompleted)})
	require.NoError(t, err)
	require.Len(t, producer.keys, 1)
	assert.Equal(t, "r-7", producer.keys[0])
}

func TestKafkaSinkShedsPublishFailuresWhileOpen(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	sink := newTestSink(producer)
	event := Event{RunID: "r-8", Action: string(EventValidationCompleted)}

	// Failures below the threshold surface to the publisher.
	for i := 0; i < 4; i++ {
		assert.Error(t, sink.Write(context.Background(), event))
	}

	// The fifth failure opens the breaker; from there publishes are shed.
	assert.NoError(t, sink.Write(context.Background(), event))
	assert.True(t, sink.breaker.IsOpen())
	assert.NoError(t, sink.Write(context.Background(), event))

	// The broker is still attempted on every write so recovery is observed.
	assert.Equal(t, 6, producer.calls)

	producer.err = nil
	assert.NoError(t, sink.Write(context.Background(), event))
	assert.NoError(t, sink.Write(context.Background(), event))
	assert.False(t, sink.breaker.IsOpen())

	// Closed again, so a fresh failure surfaces once more.
	producer.err = errors.New("broker down")
	assert.Error(t, sink.Write(context.Background(), event))
}

func TestNilKafkaSink(t *testing.T) {
	var sink *KafkaSink
	assert.NoError(t, sink.Write(context.Background(), Event{RunID: "r-9"}))
	assert.Nil(t, NewKafkaSink(nil))
}
