package proto

import (
	"bytes"
	"testing"
)

func TestCompactServo(t *testing.T) {
	enc := NewEncoder(Compact)

	tests := []struct {
		channel int
		value   int
		want    []byte
	}{
		{0, 0, []byte{0xff, 0, 0}},
		{1, 127, []byte{0xff, 1, 127}},
		{1, 300, []byte{0xff, 1, 255}},
		{2, -5, []byte{0xff, 2, 0}},
		{255, 255, []byte{0xff, 255, 255}},
	}
	for _, tt := range tests {
		frame, err := enc.Servo(tt.channel, tt.value)
		if err != nil {
			t.Fatalf("Servo(%d, %d): %v", tt.channel, tt.value, err)
		}
		if !bytes.Equal(frame, tt.want) {
			t.Errorf("Servo(%d, %d) = % x, want % x", tt.channel, tt.value, frame, tt.want)
		}
		if len(frame) != 3 {
			t.Errorf("compact frame length %d, want 3", len(frame))
		}
	}
}

func TestCompactServoBadChannel(t *testing.T) {
	enc := NewEncoder(Compact)
	if _, err := enc.Servo(300, 0); err == nil {
		t.Error("expected error for channel 300")
	}
	if _, err := enc.Servo(-1, 0); err == nil {
		t.Error("expected error for channel -1")
	}
}

func TestDelimitedServo(t *testing.T) {
	enc := NewEncoder(Delimited)
	frame, err := enc.Servo(1, 127)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'s', ',', 1, ',', 127, '\r'}
	if !bytes.Equal(frame, want) {
		t.Errorf("Servo(1, 127) = % x, want % x", frame, want)
	}
}

func TestDigitalPinThreshold(t *testing.T) {
	enc := NewEncoder(Delimited)

	tests := []struct {
		value int
		mode  byte
	}{
		{0, 0},
		{126, 0},
		{127, 255},
		{255, 255},
		{1000, 255},
	}
	for _, tt := range tests {
		frame, err := enc.DigitalPin(2, tt.value)
		if err != nil {
			t.Fatalf("DigitalPin(2, %d): %v", tt.value, err)
		}
		want := []byte{'p', ',', 2, ',', tt.mode, '\r'}
		if !bytes.Equal(frame, want) {
			t.Errorf("DigitalPin(2, %d) = % x, want % x", tt.value, frame, want)
		}
	}
}

func TestCompactDigitalPinIsServoWrite(t *testing.T) {
	// The compact protocol has no pin opcode; the write must go out as a
	// servo frame holding 0 or 255.
	enc := NewEncoder(Compact)

	frame, err := enc.DigitalPin(2, 200)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xff, 2, 255}; !bytes.Equal(frame, want) {
		t.Errorf("DigitalPin(2, 200) = % x, want % x", frame, want)
	}

	frame, err = enc.DigitalPin(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xff, 2, 0}; !bytes.Equal(frame, want) {
		t.Errorf("DigitalPin(2, 10) = % x, want % x", frame, want)
	}
}

func TestAuxiliaryFrames(t *testing.T) {
	enc := NewEncoder(Delimited)

	if got := enc.Version(); !bytes.Equal(got, []byte("v\r")) {
		t.Errorf("Version() = % x", got)
	}
	if got := enc.Verbose(true); !bytes.Equal(got, []byte("l,1\r")) {
		t.Errorf("Verbose(true) = % x", got)
	}
	if got := enc.Verbose(false); !bytes.Equal(got, []byte("l,0\r")) {
		t.Errorf("Verbose(false) = % x", got)
	}
	if got := enc.Message("hello"); !bytes.Equal(got, []byte("m,hello\r")) {
		t.Errorf("Message(hello) = % x", got)
	}
}

func TestStartupCompact(t *testing.T) {
	enc := NewEncoder(Compact)
	frames, err := enc.Startup("ident", []Neutralization{
		{Channel: 1, Value: 0},
		{Channel: 0, Value: NeutralCenter},
		{Channel: 2, Value: 0, Digital: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{0xff, 1, 0},
		{0xff, 0, 127},
		{0xff, 2, 0},
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i := range want {
		if !bytes.Equal(frames[i], want[i]) {
			t.Errorf("frame %d = % x, want % x", i, frames[i], want[i])
		}
	}
}

func TestStartupDelimited(t *testing.T) {
	enc := NewEncoder(Delimited)
	frames, err := enc.Startup("Machineroom Control", []Neutralization{
		{Channel: 1, Value: 0},
		{Channel: 0, Value: NeutralCenter},
		{Channel: 2, Value: 0, Digital: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		[]byte("l,1\r"),
		[]byte("v\r"),
		{'s', ',', 1, ',', 0, '\r'},
		{'s', ',', 0, ',', 127, '\r'},
		{'p', ',', 2, ',', 0, '\r'},
		[]byte("l,0\r"),
		[]byte("m,Machineroom Control\r"),
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i := range want {
		if !bytes.Equal(frames[i], want[i]) {
			t.Errorf("frame %d = % x, want % x", i, frames[i], want[i])
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("compact"); err != nil || m != Compact {
		t.Errorf("ParseMode(compact) = %v, %v", m, err)
	}
	if m, err := ParseMode("delimited"); err != nil || m != Delimited {
		t.Errorf("ParseMode(delimited) = %v, %v", m, err)
	}
	if m, err := ParseMode(""); err != nil || m != Compact {
		t.Errorf("ParseMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseMode("maestro"); err == nil {
		t.Error("expected error for unknown protocol")
	}
}
