// Package metrics holds the domain counters for uploads, links and downloads.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Result label values.
const (
	ResultSuccess = "success"
	ResultDenied  = "denied"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Recorder counts domain events. A nil *Recorder is valid and records nothing.
type Recorder struct {
	uploads     *prometheus.CounterVec
	linksMinted prometheus.Counter
	downloads   *prometheus.CounterVec
}

// NewRecorder creates the counters and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docexchange_uploads_total",
			Help: "Upload attempts by result.",
		}, []string{"result"}),
		linksMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docexchange_links_minted_total",
			Help: "Download links minted.",
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docexchange_downloads_total",
			Help: "Download resolutions by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.uploads, r.linksMinted, r.downloads)
	return r
}

func (r *Recorder) Upload(result string) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(result).Inc()
}

func (r *Recorder) LinkMinted() {
	if r == nil {
		return
	}
	r.linksMinted.Inc()
}

func (r *Recorder) Download(result string) {
	if r == nil {
		return
	}
	r.downloads.WithLabelValues(result).Inc()
}
