package cache

import (
	"testing"
	"time"

	"submithub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTargetRegistry_RegisterAndGet(t *testing.T) {
	r := NewTargetRegistry()
	assert.Equal(t, 0, r.Len())

	got := r.Register(model.RoutingTarget{ID: "T1", DisplayName: "Ms. Mao"})
	assert.False(t, got.RegisteredAt.IsZero())

	stored, ok := r.Get("T1")
	assert.True(t, ok)
	assert.Equal(t, "Ms. Mao", stored.DisplayName)

	_, ok = r.Get("T2")
	assert.False(t, ok)
}

func TestTargetRegistry_ReRegisterUpdatesName(t *testing.T) {
	r := NewTargetRegistry()

	first := r.Register(model.RoutingTarget{ID: "T1", DisplayName: "Ms. Mao"})
	second := r.Register(model.RoutingTarget{ID: "T1", DisplayName: "Dr. Mao"})

	assert.Equal(t, first.RegisteredAt, second.RegisteredAt)
	stored, _ := r.Get("T1")
	assert.Equal(t, "Dr. Mao", stored.DisplayName)
	assert.Equal(t, 1, r.Len())
}

func TestTargetRegistry_ListRegistrationOrder(t *testing.T) {
	r := NewTargetRegistry()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r.Register(model.RoutingTarget{ID: "T2", DisplayName: "Second", RegisteredAt: base.Add(time.Hour)})
	r.Register(model.RoutingTarget{ID: "T1", DisplayName: "First", RegisteredAt: base})

	list := r.List()
	assert.Len(t, list, 2)
	assert.Equal(t, "T1", list[0].ID)
	assert.Equal(t, "T2", list[1].ID)
}
