// Package linktest provides a scripted controller for link tests.
package linktest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Controller answers M409 requests from a scripted object model. It
// implements link.Sender: each sent request is answered synchronously by
// flattening the reply onto the attached telegram queue.
type Controller struct {
	mu sync.Mutex

	queue  chan<- wire.Telegram
	status string
	upTime int
	seqs   map[string]int
	scoped map[string]string
	live   map[string]string

	sent    []string
	failErr error
}

// NewController creates a controller reporting status "idle".
func NewController() *Controller {
	return &Controller{
		status: "idle",
		upTime: 1,
		seqs:   make(map[string]int),
		scoped: make(map[string]string),
		live:   make(map[string]string),
	}
}

// Attach sets the queue replies are delivered to.
func (c *Controller) Attach(queue chan<- wire.Telegram) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = queue
}

// SetStatus sets the reported printer status.
func (c *Controller) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

// SetUpTime sets the reported uptime in seconds.
func (c *Controller) SetUpTime(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upTime = seconds
}

// SetScoped sets the result JSON returned for a scoped request of key and
// bumps its sequence number.
func (c *Controller) SetScoped(key, resultJSON string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scoped[key] = resultJSON
	c.seqs[key]++
}

// SetLive sets an extra heartbeat object, e.g. SetLive("heat", `{"heaters":[...]}`).
func (c *Controller) SetLive(key, objectJSON string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live[key] = objectJSON
}

// Restart simulates a controller reset: uptime restarts and every sequence
// number starts over.
func (c *Controller) Restart(upTime int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upTime = upTime
	for k := range c.seqs {
		c.seqs[k] = 1
	}
}

// FailWith makes SendLine return err without replying. Nil restores replies.
func (c *Controller) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failErr = err
}

// Sent returns the request lines received so far, without newlines.
func (c *Controller) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

// SendLine records line and queues the reply telegrams.
func (c *Controller) SendLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	line = strings.TrimSpace(line)
	c.sent = append(c.sent, line)

	reply, ok := c.reply(line)
	if !ok || c.queue == nil {
		return nil
	}
	telegrams, err := wire.Flatten([]byte(reply))
	if err != nil {
		return fmt.Errorf("scripted reply for %q: %w", line, err)
	}
	for _, t := range telegrams {
		c.queue <- t
	}
	return nil
}

// Reply returns the JSON line answering a request line.
func (c *Controller) Reply(line string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reply(strings.TrimSpace(line))
}

func (c *Controller) reply(line string) (string, bool) {
	req, err := wire.ParseRequest(line)
	if err != nil {
		return "", false
	}
	if req.IsHeartbeat() {
		return c.heartbeat(req.Flags), true
	}
	key := req.Key.Key()
	result, ok := c.scoped[key]
	if !ok {
		result = "null"
	}
	return fmt.Sprintf(`{"key":%s,"flags":%s,"result":%s}`, quote(key), quote(req.Flags), result), true
}

func (c *Controller) heartbeat(flags string) string {
	keys := make([]string, 0, len(c.seqs))
	for k := range c.seqs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var seqs []string
	for _, k := range keys {
		seqs = append(seqs, fmt.Sprintf("%s:%d", quote(k), c.seqs[k]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `{"key":"","flags":%s,"result":{`, quote(flags))
	fmt.Fprintf(&b, `"state":{"status":%s,"upTime":%d}`, quote(c.status), c.upTime)
	fmt.Fprintf(&b, `,"seqs":{%s}`, strings.Join(seqs, ","))

	live := make([]string, 0, len(c.live))
	for k := range c.live {
		live = append(live, k)
	}
	sort.Strings(live)
	for _, k := range live {
		fmt.Fprintf(&b, `,%s:%s`, quote(k), c.live[k])
	}
	b.WriteString("}}")
	return b.String()
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
