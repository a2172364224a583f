package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Event is one incident-paging alert.
type Event struct {
	Summary   string
	Severity  string // "info", "warning", "error", "critical"
	Source    string
	Component string
	DedupKey  string
	Details   map[string]string
}

// Notifier dispatches alerts to an incident-paging service. Trigger returns
// the upstream HTTP status so admin callers can report it.
type Notifier interface {
	Trigger(event Event) (int, error)
}

// PagerDutyNotifier posts Events API v2 payloads.
type PagerDutyNotifier struct {
	RoutingKey string
	Endpoint   string
	Client     *http.Client
}

// NewPagerDuty creates a notifier for the given routing key and endpoint.
func NewPagerDuty(routingKey, endpoint string) *PagerDutyNotifier {
	return &PagerDutyNotifier{
		RoutingKey: routingKey,
		Endpoint:   endpoint,
		Client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *PagerDutyNotifier) Trigger(event Event) (int, error) {
	payload := map[string]interface{}{
		"routing_key":  p.RoutingKey,
		"event_action": "trigger",
		"payload": map[string]interface{}{
			"summary":   event.Summary,
			"severity":  event.Severity,
			"source":    event.Source,
			"component": event.Component,
		},
		"dedup_key": event.DedupKey,
	}
	if len(event.Details) > 0 {
		payload["payload"].(map[string]interface{})["custom_details"] = event.Details
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal pagerduty payload: %w", err)
	}

	resp, err := p.Client.Post(p.Endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to send pagerduty event: %w", err)
	}
	defer resp.Body.Close()

	log.Infof("%s PagerDuty event dispatched (%s): %d", logcolors.LogNotifier, event.DedupKey, resp.StatusCode)
	return resp.StatusCode, nil
}
