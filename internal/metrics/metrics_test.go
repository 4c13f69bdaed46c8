package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRanking(t *testing.T) {
	beforeLocated := testutil.ToFloat64(RankedEntities.WithLabelValues("test", "true"))
	beforeUnlocated := testutil.ToFloat64(RankedEntities.WithLabelValues("test", "false"))

	ObserveRanking("test", 3, 2, 0.001)

	assert.Equal(t, beforeLocated+3, testutil.ToFloat64(RankedEntities.WithLabelValues("test", "true")))
	assert.Equal(t, beforeUnlocated+2, testutil.ToFloat64(RankedEntities.WithLabelValues("test", "false")))
}
