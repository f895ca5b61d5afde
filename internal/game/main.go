package game

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// RunDesktop owns the desktop shell: window, GL, audio device, input
// and the frame loop. store may be nil (no persistence).
func RunDesktop(store SessionStore) {
	runtime.LockOSThread()

	log := slog.Default()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	// Audio: a missing output device degrades to a silent run, it
	// never aborts. The simulation does not care either way.
	bank := NewWaveBank()
	engine := NewAudioEngine(bank)
	if err := engine.Start(); err != nil {
		log.Warn("audio init failed, continuing silent", "err", err)
	}
	defer engine.Close()

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("RESONA_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	// GL state.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	rend, err := NewRenderer()
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	announcer := LogAnnouncer{Log: log}

	var session *GameSession
	if store != nil {
		if st, ok, err := store.Load(context.Background()); err != nil {
			log.Warn("load failed, starting fresh", "err", err)
		} else if ok {
			session = RestoreSession(st, engine, announcer)
			log.Info("session restored", "seed", st.Seed, "crystals", st.Crystals)
		}
	}
	if session == nil {
		session = NewGameSession(seed, engine, announcer)
		log.Info("new session", "seed", seed)
	}

	// Cosmetic spark bursts at the ship on gameplay events.
	sparks := NewSparkSystem(256, seed)
	shipView := func() (float64, float64) {
		return Project(session.Pos, session.Nav.ViewRot)
	}
	session.Events.Subscribe(EventCrystalCollected, func(Event) {
		x, y := shipView()
		sparks.Burst(x, y, SparkCrystal, 24)
	})
	session.Events.Subscribe(EventRiftEntered, func(Event) {
		x, y := shipView()
		sparks.Burst(x, y, SparkRift, 40)
	})
	session.Events.Subscribe(EventDissonance, func(Event) {
		x, y := shipView()
		sparks.Burst(x, y, SparkDissonance, 16)
	})
	session.Events.Subscribe(EventAscension, func(Event) {
		x, y := shipView()
		sparks.Burst(x, y, SparkAscension, 80)
	})

	input := NewInput()
	var sparkBuf []float32

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxFrameDT {
			dt = MaxFrameDT
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		session.Update(dt, input.Poll(window))
		sparks.Update(dt)

		rend.Draw(session.Render(), fbW, fbH)
		sparkBuf = sparks.RenderData(sparkBuf[:0])
		rend.DrawGlow(sparkBuf, fbW, fbH)
		window.SwapBuffers()
	}

	if session.SingMode && session.Pitch != nil {
		session.Pitch.Stop()
	}

	if store != nil {
		if err := store.Save(context.Background(), session.Save()); err != nil {
			log.Error("save failed", "err", err)
		} else {
			log.Info("session saved", "crystals", session.Crystals)
		}
	}
}
