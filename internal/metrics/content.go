package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contentWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "content",
			Name:      "writes_total",
			Help:      "内容写操作次数，按 section、操作与结果统计。",
		},
		[]string{"section", "op", "result"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "媒体上传次数。",
		},
		[]string{"resource_type", "result"},
	)

	uploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "media",
			Name:      "uploaded_bytes_total",
			Help:      "成功上传的字节数。",
		},
	)
)

// ObserveContentWrite 记录一次 POST/PUT/PATCH/DELETE 的结果。
func ObserveContentWrite(section, op string, err error) {
	contentWritesTotal.WithLabelValues(section, op, result(err)).Inc()
}

// ObserveUpload 记录一次上传；失败时 resourceType 可为空。
func ObserveUpload(resourceType string, bytes int64, err error) {
	if resourceType == "" {
		resourceType = "unknown"
	}
	uploadsTotal.WithLabelValues(resourceType, result(err)).Inc()
	if err == nil && bytes > 0 {
		uploadBytes.Add(float64(bytes))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
