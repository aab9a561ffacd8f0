package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain/listing"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

func TestSubscriberInvalidatesOnManpowerChanges(t *testing.T) {
	inv := &countingInvalidator{}
	s := NewSubscriber(nil, "listing", inv, nil)

	id := uuid.New()
	s.handle(&nats.Msg{Subject: "listing.manpower.created", Data: []byte(`{"id":"` + id.String() + `"}`)})
	s.handle(&nats.Msg{Subject: "listing.manpower.updated"})
	assert.Equal(t, 2, inv.calls)

	s.handle(&nats.Msg{Subject: "listing.job.created"})
	s.handle(&nats.Msg{Subject: "listing.equipment.deleted"})
	assert.Equal(t, 2, inv.calls)

	s.handle(&nats.Msg{Subject: "listing.manpower.updated", Data: []byte("{broken")})
	s.handle(&nats.Msg{Subject: "other.manpower.updated"})
	assert.Equal(t, 2, inv.calls)
}

func TestDecodeEvent(t *testing.T) {
	id := uuid.New()

	e, err := DecodeEvent("listing", &nats.Msg{
		Subject: "listing.job.deleted",
		Data:    []byte(`{"kind":"manpower","id":"` + id.String() + `","action":"created"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, listing.KindJob, e.Kind, "subject wins over body")
	assert.Equal(t, listing.ActionDeleted, e.Action)
	assert.Equal(t, id, e.ID)

	_, err = DecodeEvent("listing", &nats.Msg{Subject: "listing.job"})
	assert.Error(t, err)

	_, err = DecodeEvent("listing", &nats.Msg{Subject: "listing"})
	assert.Error(t, err)
}

func TestChangeEventSubject(t *testing.T) {
	e := listing.ChangeEvent{Kind: listing.KindManpower, Action: listing.ActionUpdated}
	assert.Equal(t, "listing.manpower.updated", e.Subject("listing"))
}
