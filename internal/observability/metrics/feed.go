package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_connections_active",
			Help:      "Number of active feed websocket connections",
		},
	)

	FeedEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_published_total",
			Help:      "Total number of feed events published by type",
		},
		[]string{"event_type"},
	)

	FeedDroppedMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_dropped_messages_total",
			Help:      "Feed messages dropped because a subscriber was too slow",
		},
	)
)
