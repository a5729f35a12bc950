package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for webhook turns.
type AssistantMetrics struct {
	webhookTotal   *prometheus.CounterVec
	turnTotal      *prometheus.CounterVec
	turnLatency    *prometheus.HistogramVec
	actionTotal    *prometheus.CounterVec
	llmCostUSD     *prometheus.CounterVec
	outboundTotal  *prometheus.CounterVec
	sessionCreated prometheus.Counter
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wa_assistant",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Total inbound WhatsApp webhook deliveries by outcome",
		}, []string{"result"}),
		turnTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wa_assistant",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total conversation turns by flow and outcome",
		}, []string{"flow", "outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wa_assistant",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow"}),
		actionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wa_assistant",
			Subsystem: "conversation",
			Name:      "action_calls_total",
			Help:      "Total action dispatches requested by the model",
		}, []string{"action", "result"}),
		llmCostUSD: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wa_assistant",
			Subsystem: "llm",
			Name:      "cost_usd_total",
			Help:      "Estimated LLM spend in USD",
		}, []string{"model"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wa_assistant",
			Subsystem: "whatsapp",
			Name:      "outbound_total",
			Help:      "Total outbound WhatsApp API calls",
		}, []string{"type", "status"}),
		sessionCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wa_assistant",
			Subsystem: "session",
			Name:      "created_total",
			Help:      "Sessions created on first contact",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.webhookTotal, m.turnTotal, m.turnLatency, m.actionTotal, m.llmCostUSD, m.outboundTotal, m.sessionCreated)
	return m
}

func (m *AssistantMetrics) ObserveWebhook(result string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(result).Inc()
}

func (m *AssistantMetrics) ObserveTurn(flow, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnTotal.WithLabelValues(flow, outcome).Inc()
	m.turnLatency.WithLabelValues(flow).Observe(seconds)
}

func (m *AssistantMetrics) ObserveAction(action, result string) {
	if m == nil {
		return
	}
	m.actionTotal.WithLabelValues(action, result).Inc()
}

func (m *AssistantMetrics) AddCost(model string, usd float64) {
	if m == nil || usd <= 0 {
		return
	}
	m.llmCostUSD.WithLabelValues(model).Add(usd)
}

func (m *AssistantMetrics) ObserveOutbound(msgType string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.outboundTotal.WithLabelValues(msgType, status).Inc()
}

func (m *AssistantMetrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessionCreated.Inc()
}
