package audio

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 1
	toneHz       = 880.0
	toneLength   = 200 * time.Millisecond
)

// The audio context is process-wide and initialized once; later pulses reuse
// it.
var (
	ctxOnce  sync.Once
	audioCtx *oto.Context
	ctxReady bool
)

func initContext() {
	ctxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("audio: context init failed: %v", err)
			return
		}
		<-readyChan
		audioCtx = ctx
		ctxReady = true
	})
}

// Beeper plays a short synthesized tone per pulse. It implements
// ringer.Pulser. A missing or failed audio device degrades to silence.
type Beeper struct {
	tone []byte
}

func NewBeeper() *Beeper {
	return &Beeper{tone: synthesizeTone()}
}

func (b *Beeper) Pulse() {
	initContext()
	if !ctxReady || audioCtx == nil {
		return
	}
	player := audioCtx.NewPlayer(bytes.NewReader(b.tone))
	player.Play()
	go func() {
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			log.Printf("audio: close player: %v", err)
		}
	}()
}

// synthesizeTone renders one beep as signed 16-bit little-endian PCM with a
// linear fade-out to avoid a click at the end.
func synthesizeTone() []byte {
	samples := int(float64(sampleRate) * toneLength.Seconds())
	buf := make([]byte, 0, samples*2)
	for i := 0; i < samples; i++ {
		fade := 1.0 - float64(i)/float64(samples)
		v := math.Sin(2*math.Pi*toneHz*float64(i)/sampleRate) * 0.4 * fade
		sample := int16(v * math.MaxInt16)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(sample))
	}
	return buf
}
