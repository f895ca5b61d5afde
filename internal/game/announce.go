package game

import "log/slog"

// Announcer is the fire-and-forget speech sink. The core never waits
// on it and never learns whether anything was spoken.
type Announcer interface {
	Announce(msg string)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(string)

func (f AnnouncerFunc) Announce(msg string) { f(msg) }

// DedupAnnouncer suppresses exact repeats of a message inside the
// cooldown window, keyed by the exact string. Time advances via Tick
// from the simulation loop, so suppression follows game time.
type DedupAnnouncer struct {
	next Announcer
	now  float64
	last map[string]float64
}

func NewDedupAnnouncer(next Announcer) *DedupAnnouncer {
	return &DedupAnnouncer{next: next, last: make(map[string]float64)}
}

func (d *DedupAnnouncer) Tick(dt float64) { d.now += dt }

func (d *DedupAnnouncer) Announce(msg string) {
	if t, ok := d.last[msg]; ok && d.now-t < AnnounceCooldown {
		return
	}
	d.last[msg] = d.now
	d.next.Announce(msg)
}

// LogAnnouncer speaks through the structured log; stands in when no
// speech synthesizer is wired up.
type LogAnnouncer struct {
	Log *slog.Logger
}

func (l LogAnnouncer) Announce(msg string) {
	l.Log.Info("announce", "msg", msg)
}
