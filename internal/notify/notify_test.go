package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRecorder_DrainAndCount(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()

	r.Notify(ctx, Notice{Level: Warning, Message: "a"})
	r.Notify(ctx, Notice{Level: Error, Message: "b"})
	r.Notify(ctx, Notice{Level: Warning, Message: "c"})

	assert.Equal(t, 2, r.Count(Warning))
	assert.Equal(t, 1, r.Count(Error))

	got := r.Drain()
	assert.Len(t, got, 3)
	assert.Empty(t, r.Drain())
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	m := Multi{a, b, NewLog(zap.NewNop()), Discard}
	m.Notify(context.Background(), Notice{Level: Info, Message: "hello"})
	assert.Len(t, a.Notices, 1)
	assert.Len(t, b.Notices, 1)
}
