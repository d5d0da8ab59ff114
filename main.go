package main

import (
	"flag"
	"log"
	"os"

	"github.com/hullworks/machineroom/comm"
	"github.com/hullworks/machineroom/helm"
	"github.com/hullworks/machineroom/proto"
	"github.com/hullworks/machineroom/remote"
	"github.com/hullworks/machineroom/session"
)

func main() {
	configPath := flag.String("config", "machineroom.yaml", "path to the config file")
	flag.Parse()

	config := defaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		if err := config.load(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	} else {
		log.Printf("no config file at %s, using defaults", *configPath)
	}

	mode, err := proto.ParseMode(config.Protocol)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cmap, err := config.channelMap()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("machineroom starting, %s protocol, channels %v", mode, cmap.Channels())

	commEvents, frames := comm.OpenPort(config.Serial)
	router := helm.NewRouter(cmap, proto.NewEncoder(mode), frames, config.Ident)
	arbiter := session.NewArbiter()

	server := remote.NewServer()
	server.Listen(config.Listen)

	// Everything below runs on this one goroutine: arbiter transitions and
	// the routing pipeline are serialized, and frames reach the serial
	// worker in the order they were encoded.
	for {
		select {
		case ev := <-commEvents:
			handleComm(router, ev)
		case ev := <-server.Events():
			handleClient(server, arbiter, router, ev)
		}
	}
}

func handleComm(router *helm.Router, ev comm.Event) {
	switch ev.Kind {
	case comm.LinkOpened:
		log.Println("serial link open")
		router.LinkOpened()
	case comm.LinkClosed:
		log.Println("serial link lost")
		router.LinkClosed()
	case comm.DataReceived:
		log.Printf("data received from machineroom: %q", ev.Data)
	}
}

func handleClient(server *remote.Server, arbiter *session.Arbiter, router *helm.Router, ev remote.Event) {
	switch ev.Kind {
	case remote.ControlRequest:
		granted := arbiter.Request(ev.Client)
		if granted {
			log.Printf("%s takes remote control", ev.Client)
		} else {
			log.Printf("denying %s, already being remote controlled", ev.Client)
		}
		server.Reply(ev.Client, "control_request", granted)

	case remote.ControlRelease:
		if arbiter.Release(ev.Client) {
			log.Printf("%s leaves remote control", ev.Client)
			server.Reply(ev.Client, "control_release", true)
		}

	case remote.ControlData:
		if !arbiter.Authorized(ev.Client) {
			log.Printf("dropping control data from unauthorized %s", ev.Client)
			return
		}
		if err := router.HandleUpdate(ev.Update); err != nil {
			log.Printf("discarding control update: %v", err)
		}

	case remote.TargetCommand:
		if !arbiter.Authorized(ev.Client) {
			log.Printf("dropping setpoint from unauthorized %s", ev.Client)
			return
		}
		log.Printf("updating %s to %d", ev.Target, ev.Value)
		if err := router.HandleSetpoint(ev.Target, ev.Value); err != nil {
			log.Printf("discarding setpoint: %v", err)
		}

	case remote.ClientDisconnect:
		arbiter.Disconnect(ev.Client)
	}
}
