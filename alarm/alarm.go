// Package alarm plays the audible drowsiness alert.
package alarm

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"
)

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// Player plays an mp3 file each time the alarm goes off.
type Player struct {
	Path   string
	Logger *logrus.Entry
}

// NewPlayer creates an alarm player for the mp3 file at path.
func NewPlayer(path string, log *logrus.Entry) *Player {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Player{Path: path, Logger: log}
}

// Alert starts the playback in the background and returns immediately.
// There is no way to stop a playback once it was started.
func (p *Player) Alert() {
	go func() {
		if err := p.play(); err != nil {
			p.Logger.WithError(err).WithField("file", p.Path).Error("could not play the alarm")
		}
	}()
}

// play decodes the alarm file and blocks until the playback has ended.
func (p *Player) play() error {
	f, err := os.Open(p.Path)
	if err != nil {
		return err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("error decoding the alarm file: %w", err)
	}
	defer streamer.Close()

	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		return err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}

// initSpeaker initializes the audio device on the first playback.
// The following playbacks are resampled to the rate of the first one.
func initSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	speakerOnce.Do(func() {
		speakerRate = sr
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			speakerErr = fmt.Errorf("error initializing the speaker: %w", err)
		}
	})
	return speakerRate, speakerErr
}
