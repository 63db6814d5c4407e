package dynamixel

import (
	"encoding/binary"
	"math"
)

// TicksToRadians converts encoder ticks to radians. The motor has 4096 ticks
// per revolution with center at 2048.
func TicksToRadians(ticks int32) float64 {
	return float64(ticks-CenterTick) * math.Pi / float64(CenterTick)
}

// RadiansToTicks converts radians to encoder ticks, clamped to the raw range
// the goal position register accepts.
func RadiansToTicks(radians float64) int32 {
	ticks := int32(math.Round(radians*float64(CenterTick)/math.Pi)) + CenterTick
	if ticks < MinTick {
		ticks = MinTick
	}
	if ticks > MaxTick {
		ticks = MaxTick
	}
	return ticks
}

// Int32ToBytes converts an int32 to 4 bytes (little-endian), the wire layout
// of the 4-byte position registers.
func Int32ToBytes(val int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(val))
	return buf
}

// BytesToInt32 converts 4 bytes (little-endian) to an int32.
func BytesToInt32(data []byte) int32 {
	if len(data) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(data))
}
