package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	ballotsCastTotal  prometheus.Counter
	ballotsRejected   *prometheus.CounterVec
	chunksIndexed     prometheus.Counter
	questionsAnswered prometheus.Counter
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "univote",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the voting API.",
		}, []string{"method", "path", "status"})

		ballotsCastTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "univote",
			Name:      "ballots_cast_total",
			Help:      "Total ballots committed.",
		})

		ballotsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "univote",
			Name:      "ballots_rejected_total",
			Help:      "Ballot casts rejected, by reason.",
		}, []string{"reason"})

		chunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "univote",
			Name:      "manifesto_chunks_indexed_total",
			Help:      "Manifesto chunks embedded and stored.",
		})

		questionsAnswered = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "univote",
			Name:      "manifesto_questions_total",
			Help:      "Manifesto Q&A questions answered.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncBallotCast increments the committed-ballot counter.
func IncBallotCast() {
	if ballotsCastTotal == nil {
		return
	}
	ballotsCastTotal.Inc()
}

// IncBallotRejected increments the rejected-ballot counter for a reason.
func IncBallotRejected(reason string) {
	if ballotsRejected == nil {
		return
	}
	ballotsRejected.WithLabelValues(reason).Inc()
}

// AddChunksIndexed adds to the indexed-chunk counter.
func AddChunksIndexed(n int) {
	if chunksIndexed == nil || n <= 0 {
		return
	}
	chunksIndexed.Add(float64(n))
}

// IncQuestionAnswered increments the Q&A counter.
func IncQuestionAnswered() {
	if questionsAnswered == nil {
		return
	}
	questionsAnswered.Inc()
}
