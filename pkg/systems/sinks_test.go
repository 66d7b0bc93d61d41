package systems

import (
	"testing"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/types"
)

func TestFrameSinkTags(t *testing.T) {
	s := NewFrameSink()
	c := types.Cell{X: 1, Y: 1}

	s.TagCell(c, components.PreviewInvalid)
	if s.Tag(c) != components.PreviewInvalid {
		t.Error("tag should be recorded")
	}
	if s.TaggedCount() != 1 {
		t.Errorf("tagged count: got %d, want 1", s.TaggedCount())
	}
	s.UntagCell(c)
	if s.Tag(c) != components.PreviewNone {
		t.Error("untag should restore the default")
	}
	if s.TaggedCount() != 0 {
		t.Errorf("tagged count after untag: got %d", s.TaggedCount())
	}
}

func TestFrameSinkOverlay(t *testing.T) {
	s := NewFrameSink()

	s.SetFillProgress(7, 0.4)
	if _, ok := s.Overlay(7); ok {
		t.Error("overlay should stay hidden until SetVisible(true)")
	}
	s.SetVisible(7, true)
	if fill, ok := s.Overlay(7); !ok || fill != 0.4 {
		t.Errorf("overlay: fill=%v visible=%v", fill, ok)
	}
	s.SetVisible(7, false)
	if _, ok := s.Overlay(7); ok {
		t.Error("hidden overlay should not be reported")
	}

	s.SetVisible(7, true)
	s.Forget(func(id ecs.EntityID) bool { return id != 7 })
	if _, ok := s.Overlay(7); ok {
		t.Error("destroyed item overlay should be forgotten")
	}
}
