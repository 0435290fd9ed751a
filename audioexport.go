package termsynth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Wav encodes a mono buffer as a .wav file, either as 16-bit integers or as
// 32-bit floats.
func Wav(buffer []float32, sampleRate int, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(buffer), sampleRate, pcm16, buf)
	err := rawToBuffer(buffer, pcm16, buf)
	if err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	return buf.Bytes(), nil
}

func rawToBuffer(data []float32, pcm16 bool, buf *bytes.Buffer) error {
	var err error
	if pcm16 {
		int16data := make([]int16, len(data))
		for i, v := range data {
			int16data[i] = int16(clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, data)
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %v", err)
	}
	return nil
}

// wavHeader writes the RIFF header of a mono file with length samples.
func wavHeader(length, sampleRate int, pcm16 bool, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	const numChannels = 1
	var bytesPerSample, chunkSize, fmtChunkSize, waveFormat int
	if pcm16 {
		bytesPerSample = 2
		chunkSize = 36 + bytesPerSample*length
		fmtChunkSize = 16
		waveFormat = 1 // PCM
	} else {
		bytesPerSample = 4
		chunkSize = 50 + bytesPerSample*length
		fmtChunkSize = 18
		waveFormat = 3 // IEEE float
	}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	if !pcm16 {
		binary.Write(buf, binary.LittleEndian, uint16(0)) // size of extension
		buf.WriteString("fact")
		binary.Write(buf, binary.LittleEndian, uint32(4))      // fact chunk size
		binary.Write(buf, binary.LittleEndian, uint32(length)) // sample length
	}
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*length))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
