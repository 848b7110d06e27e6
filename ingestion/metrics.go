// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"fmt"

	"github.com/poiesic/ragengine/core"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ragengine"

// Metrics holds the pipeline's Prometheus collectors.
// A nil *Metrics records nothing.
type Metrics struct {
	documents *prometheus.CounterVec
	chunks    *prometheus.CounterVec
	cycles    prometheus.Histogram
	backlog   *prometheus.GaugeVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "documents_total",
			Help:      "Documents handled by the parsing stage, by outcome.",
		}, []string{"outcome"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_total",
			Help:      "Chunks handled by the embedding stage, by outcome.",
		}, []string{"outcome"}),
		cycles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one pipeline cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		backlog: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "backlog",
			Help:      "Documents and chunks by processing state after the last cycle.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.documents, m.chunks, m.cycles, m.backlog} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering pipeline metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) documentChunked() {
	if m != nil {
		m.documents.WithLabelValues("chunked").Inc()
	}
}

func (m *Metrics) documentFailed() {
	if m != nil {
		m.documents.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) chunkEmbedded() {
	if m != nil {
		m.chunks.WithLabelValues("embedded").Inc()
	}
}

func (m *Metrics) chunkSkipped() {
	if m != nil {
		m.chunks.WithLabelValues("skipped").Inc()
	}
}

func (m *Metrics) observeCycle(seconds float64) {
	if m != nil {
		m.cycles.Observe(seconds)
	}
}

func (m *Metrics) observeBacklog(b core.Backlog) {
	if m == nil {
		return
	}
	m.backlog.WithLabelValues("pending_documents").Set(float64(b.PendingDocuments))
	m.backlog.WithLabelValues("failed_documents").Set(float64(b.FailedDocuments))
	m.backlog.WithLabelValues("processed_documents").Set(float64(b.ProcessedDocuments))
	m.backlog.WithLabelValues("pending_chunks").Set(float64(b.PendingChunks))
	m.backlog.WithLabelValues("embedded_chunks").Set(float64(b.EmbeddedChunks))
	m.backlog.WithLabelValues("skipped_chunks").Set(float64(b.SkippedChunks))
}
