package audio

import (
	"encoding/binary"
	"time"
)

// PCMDuration converts a raw capture byte count to audio duration for the
// 16kHz mono s16 capture format.
func PCMDuration(pcmBytes int64) time.Duration {
	if pcmBytes <= 0 {
		return 0
	}
	samples := pcmBytes / bytesPerSample
	return time.Duration(samples) * time.Second / sampleRateHz
}

// EncodeWAV frames raw little-endian PCM bytes with a minimal WAV header in
// the capture format. Providers consume this as a complete audio file.
func EncodeWAV(pcm []byte) []byte {
	const bitsPerSample = 8 * bytesPerSample
	byteRate := sampleRateHz * channelCount * bytesPerSample
	blockAlign := channelCount * bytesPerSample

	out := make([]byte, 44+len(pcm))
	copy(out[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(pcm)))
	copy(out[8:12], []byte("WAVE"))
	copy(out[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(channelCount))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRateHz))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)
	copy(out[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(pcm)))
	copy(out[44:], pcm)
	return out
}
