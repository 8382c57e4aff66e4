package playback

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/teslashibe/go-tjbot/pkg/tts"
)

// ProbeDuration measures the playback duration of synthesized audio.
// WAV clips are measured from the RIFF header; MP3 clips are decoded with
// go-mp3 to count output samples.
func ProbeDuration(data []byte, format tts.Format) (time.Duration, error) {
	switch format {
	case tts.FormatMP3:
		return probeMP3(data)
	default:
		return probeWAV(data)
	}
}

func probeWAV(data []byte) (time.Duration, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, fmt.Errorf("playback: not a RIFF/WAVE clip")
	}

	var byteRate uint32
	var dataLen uint32
	haveFmt, haveData := false, false

	// Walk the chunk list; fmt carries the byte rate, data the payload size.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8

		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return 0, fmt.Errorf("playback: truncated fmt chunk")
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			haveFmt = true
		case "data":
			dataLen = size
			haveData = true
		}
		if haveFmt && haveData {
			break
		}

		// Chunks are word-aligned.
		off = body + int(size)
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt || !haveData || byteRate == 0 {
		return 0, fmt.Errorf("playback: missing fmt or data chunk")
	}
	seconds := float64(dataLen) / float64(byteRate)
	return time.Duration(seconds * float64(time.Second)), nil
}

func probeMP3(data []byte) (time.Duration, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("playback: decode mp3: %w", err)
	}
	// go-mp3 outputs 16-bit stereo, 4 bytes per sample frame.
	frames := dec.Length() / 4
	seconds := float64(frames) / float64(dec.SampleRate())
	return time.Duration(seconds * float64(time.Second)), nil
}
