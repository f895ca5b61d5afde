package game

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
)

const (
	pitchWindow = 4096
	pitchFloor  = 80.0   // ignore bins below the vocal range
	pitchCeil   = 1000.0 // and above it
)

// PitchDetector is the sing-to-tune microphone listener. It does its
// blocking capture and FFT on its own goroutine and publishes the
// latest detected frequency for the next simulation tick; nothing in
// the tick or audio path ever waits on the microphone.
type PitchDetector struct {
	stream *portaudio.Stream
	buf    []float32

	detected atomicFloat

	cancel context.CancelFunc
	done   chan struct{}
}

// StartPitchDetector opens the default input device. A missing
// microphone is an expected condition: the caller announces it once
// and the feature stays off.
func StartPitchDetector(ctx context.Context) (*PitchDetector, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	d := &PitchDetector{
		buf:  make([]float32, pitchWindow),
		done: make(chan struct{}),
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, pitchWindow, d.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}
	d.stream = stream

	ctx, d.cancel = context.WithCancel(ctx)
	go d.run(ctx)
	return d, nil
}

func (d *PitchDetector) run(ctx context.Context) {
	defer close(d.done)
	window := make([]float64, pitchWindow)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := d.stream.Read(); err != nil {
			// Device vanished; publish silence and stop.
			d.detected.Store(0)
			return
		}
		for i, s := range d.buf {
			// Hann window keeps spectral leakage off the peak pick.
			w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(pitchWindow-1)))
			window[i] = float64(s) * w
		}
		if f := dominantFreq(window); f > 0 {
			d.detected.Store(f)
		}
	}
}

// dominantFreq returns the strongest spectral peak inside the vocal
// range, or 0 when the signal is too quiet to trust.
func dominantFreq(window []float64) float64 {
	spectrum := fft.FFTReal(window)
	binHz := float64(SampleRate) / float64(len(window))
	lo := int(pitchFloor / binHz)
	hi := int(pitchCeil / binHz)
	if hi > len(spectrum)/2 {
		hi = len(spectrum) / 2
	}
	best := lo
	bestMag := 0.0
	for i := lo; i < hi; i++ {
		if m := cmplx.Abs(spectrum[i]); m > bestMag {
			bestMag = m
			best = i
		}
	}
	if bestMag < 1.0 {
		return 0
	}
	return float64(best) * binHz
}

// Detected returns the latest published frequency, 0 when none.
func (d *PitchDetector) Detected() float64 {
	return d.detected.Load()
}

// Stop tears down the capture stream.
func (d *PitchDetector) Stop() {
	d.cancel()
	d.stream.Abort()
	<-d.done
	d.stream.Close()
	portaudio.Terminate()
}
