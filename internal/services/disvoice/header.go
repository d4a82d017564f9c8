package disvoice

import (
	"fmt"
	"os"

	"github.com/youpy/go-wav"
)

// Format summarizes a WAV header.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// ReadWAVHeader parses the RIFF/WAVE header of path.
func ReadWAVHeader(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return Format{}, err
	}
	defer file.Close()

	format, err := wav.NewReader(file).Format()
	if err != nil {
		return Format{}, fmt.Errorf("parse wav header: %w", err)
	}
	if format.NumChannels == 0 || format.SampleRate == 0 {
		return Format{}, fmt.Errorf("parse wav header: %d channels at %d Hz", format.NumChannels, format.SampleRate)
	}
	return Format{
		AudioFormat:   format.AudioFormat,
		Channels:      format.NumChannels,
		SampleRate:    format.SampleRate,
		BitsPerSample: format.BitsPerSample,
	}, nil
}
