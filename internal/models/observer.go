package models

import (
	"github.com/san-kum/epipeak/internal/sim"
	log "github.com/sirupsen/logrus"
)

// DailyLog writes each simulated day to a logrus entry at debug level.
type DailyLog struct {
	entry *log.Entry
}

func NewDailyLog(entry *log.Entry) *DailyLog {
	return &DailyLog{entry: entry}
}

func (d *DailyLog) OnStep(x sim.State, t float64) {
	if !d.entry.Logger.IsLevelEnabled(log.DebugLevel) {
		return
	}
	d.entry.WithFields(log.Fields{
		"day":         int(t),
		"susceptible": x[Susceptible],
		"infected":    x[Infected],
		"recovered":   x[Recovered],
	}).Debug("day")
}
