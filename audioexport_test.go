package termsynth_test

import (
	"encoding/binary"
	"testing"

	"github.com/vsariola/termsynth"
)

func TestWavHeader(t *testing.T) {
	tests := []struct {
		pcm16      bool
		headerSize int
		format     uint16
		bits       uint16
	}{
		{true, 44, 1, 16},
		{false, 58, 3, 32},
	}
	samples := []float32{0, 0.5, -0.5, 1}
	for _, tt := range tests {
		wav, err := termsynth.Wav(samples, 48000, tt.pcm16)
		if err != nil {
			t.Fatal(err)
		}
		bytesPerSample := int(tt.bits / 8)
		if len(wav) != tt.headerSize+len(samples)*bytesPerSample {
			t.Errorf("pcm16 %v: got %d bytes", tt.pcm16, len(wav))
		}
		if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
			t.Errorf("pcm16 %v: bad magic", tt.pcm16)
		}
		if got := int(binary.LittleEndian.Uint32(wav[4:8])); got != len(wav)-8 {
			t.Errorf("pcm16 %v: chunk size %d, want %d", tt.pcm16, got, len(wav)-8)
		}
		if f := binary.LittleEndian.Uint16(wav[20:22]); f != tt.format {
			t.Errorf("pcm16 %v: format %d", tt.pcm16, f)
		}
		if c := binary.LittleEndian.Uint16(wav[22:24]); c != 1 {
			t.Errorf("pcm16 %v: %d channels", tt.pcm16, c)
		}
		if r := binary.LittleEndian.Uint32(wav[24:28]); r != 48000 {
			t.Errorf("pcm16 %v: sample rate %d", tt.pcm16, r)
		}
		if b := binary.LittleEndian.Uint16(wav[34:36]); b != tt.bits {
			t.Errorf("pcm16 %v: %d bits", tt.pcm16, b)
		}
	}
}
