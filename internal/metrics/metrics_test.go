package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTask(t *testing.T) {
	m := New()

	m.ObserveTask("add_game", 10*time.Millisecond, nil)
	m.ObserveTask("add_game", 5*time.Millisecond, errors.New("boom"))
	m.ObserveTask("add_game", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Tasks("add_game", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tasks("add_game", ResultError)))
}

func TestRejectedAndCollectionSize(t *testing.T) {
	m := New()

	m.Rejected("game")
	m.Rejected("game")
	m.SetCollectionSize("console", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejections.WithLabelValues("game")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CollectionSize("console")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveTask("load", time.Second, nil)
	m.Rejected("game")
	m.SetCollectionSize("game", 1)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteText(&bytes.Buffer{}))
}

func TestWriteText(t *testing.T) {
	m := New()
	m.SetCollectionSize("game", 4)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `wikigames_collection_size{kind="game"} 4`)
}
