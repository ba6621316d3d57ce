package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewCreated struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

func TestNewEvent_RoundTrip(t *testing.T) {
	payload := reviewCreated{ReviewID: "r-1", ProductID: "p-1", Rating: 5}

	event, err := NewEvent("review.created", "p-1", "review", "greencart-api", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())

	raw, err := event.WithCorrelationID("corr-42").Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-42", decoded.CorrelationID)

	var got reviewCreated
	require.NoError(t, decoded.UnmarshalData(&got))
	assert.Equal(t, payload, got)
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "greencart.review.created", Topic("review", "created"))
	assert.Equal(t, "greencart.dlq.greencart.review.created", DLQTopic(Topic("review", "created")))
}
