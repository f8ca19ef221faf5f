package connection

import (
	"math/rand"
	"time"

	"github.com/paneldue/paneldue-go/pkg/poll"
)

// Redial defaults.
const (
	// DefaultRedialMax caps the delay between dial attempts.
	DefaultRedialMax = 30 * time.Second

	// DefaultRedialJitter is the largest random extension of a delay, as a
	// fraction of it.
	DefaultRedialJitter = 0.25
)

// RedialConfig sets the delays between dial attempts. The delay starts at
// Initial and doubles per attempt up to Max.
type RedialConfig struct {
	// Initial is the first delay. Zero takes poll.DefaultPollTimeout, the
	// time an unanswered request is waited for.
	Initial time.Duration `yaml:"initial"`

	// Max caps the delay. Zero takes DefaultRedialMax.
	Max time.Duration `yaml:"max"`

	// Jitter extends each delay by up to this fraction.
	Jitter float64 `yaml:"jitter"`
}

// DefaultRedialConfig returns the default redial delays: 4s, 8s, 16s, then
// 30s until a reply arrives.
func DefaultRedialConfig() RedialConfig {
	return RedialConfig{
		Initial: poll.DefaultPollTimeout,
		Max:     DefaultRedialMax,
		Jitter:  DefaultRedialJitter,
	}
}

func (c RedialConfig) withDefaults() RedialConfig {
	if c.Initial <= 0 {
		c.Initial = poll.DefaultPollTimeout
	}
	if c.Max <= 0 {
		c.Max = DefaultRedialMax
	}
	c.Max = max(c.Max, c.Initial)
	c.Jitter = max(c.Jitter, 0)
	return c
}

// Delay returns the base delay before the given attempt, counted from 1.
func (c RedialConfig) Delay(attempt int) time.Duration {
	c = c.withDefaults()
	d := c.Initial
	for i := 1; i < attempt && d < c.Max; i++ {
		d *= 2
	}
	return min(d, c.Max)
}

// redialer counts failed attempts. It is owned by the Run goroutine.
type redialer struct {
	config RedialConfig
	rng    *rand.Rand
}

func newRedialer(config RedialConfig) *redialer {
	return &redialer{
		config: config.withDefaults(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *redialer) delay(attempt int) time.Duration {
	d := r.config.Delay(attempt)
	if r.config.Jitter <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*r.config.Jitter*r.rng.Float64())
}
