// joyctl feeds a local joystick into a machineroom daemon over its websocket
// control protocol. It requests control on connect, streams control_data
// snapshots while it holds the session, and releases cleanly on interrupt.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/0xcafed00d/joystick"
	"github.com/gorilla/websocket"
)

const sendRateHz = 30

type controlData struct {
	Axes    map[int]float64 `json:"axes"`
	Buttons map[int]int     `json:"buttons"`
}

type request struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

type reply struct {
	Action string `json:"action"`
	Data   bool   `json:"data"`
}

func findJoystick(id int) (joystick.Joystick, error) {
	if id >= 0 {
		return joystick.Open(id)
	}
	for i := 0; i < 4; i++ {
		if js, err := joystick.Open(i); err == nil {
			return js, nil
		}
	}
	return nil, fmt.Errorf("no joystick found")
}

// snapshot reads the joystick and normalizes it to the control protocol:
// axes scaled from int16 to [-1,1], buttons unpacked from the bitmask to
// 0/255 values.
func snapshot(js joystick.Joystick) (controlData, error) {
	state, err := js.Read()
	if err != nil {
		return controlData{}, fmt.Errorf("reading joystick: %v", err)
	}

	data := controlData{
		Axes:    make(map[int]float64, js.AxisCount()),
		Buttons: make(map[int]int, js.ButtonCount()),
	}
	for i, raw := range state.AxisData {
		value := float64(raw) / 32767
		if value < -1 {
			value = -1
		} else if value > 1 {
			value = 1
		}
		data.Axes[i] = value
	}
	for i := 0; i < js.ButtonCount(); i++ {
		if state.Buttons&(uint32(1)<<uint(i)) != 0 {
			data.Buttons[i] = 255
		} else {
			data.Buttons[i] = 0
		}
	}
	return data, nil
}

func requestControl(conn *websocket.Conn) error {
	if err := conn.WriteJSON(request{Action: "control_request"}); err != nil {
		return err
	}
	var r reply
	if err := conn.ReadJSON(&r); err != nil {
		return err
	}
	if r.Action != "control_request" || !r.Data {
		return fmt.Errorf("control denied, another client is steering")
	}
	return nil
}

func run(server string, joystickID int) error {
	js, err := findJoystick(joystickID)
	if err != nil {
		return err
	}
	defer js.Close()
	log.Printf("using joystick: %s (%d axes, %d buttons)", js.Name(), js.AxisCount(), js.ButtonCount())

	conn, _, err := websocket.DefaultDialer.Dial(server, nil)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %v", server, err)
	}
	defer conn.Close()

	if err := requestControl(conn); err != nil {
		return err
	}
	log.Println("control granted")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ticker := time.NewTicker(time.Second / sendRateHz)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			log.Println("releasing control")
			conn.WriteJSON(request{Action: "control_release"})
			return nil
		case <-ticker.C:
			data, err := snapshot(js)
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(request{Action: "control_data", Data: data}); err != nil {
				return fmt.Errorf("sending control data: %v", err)
			}
		}
	}
}

func main() {
	server := flag.String("server", "ws://127.0.0.1:8520/ws", "machineroom websocket endpoint")
	joystickID := flag.Int("joystick", -1, "joystick id, -1 probes the first four")
	flag.Parse()

	if err := run(*server, *joystickID); err != nil {
		log.Fatalf("joyctl: %v", err)
	}
}
