package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"toonbridge/internal/models"
	"toonbridge/internal/toon"
)

type recordingPublisher struct {
	published []models.ThermostatState
	err       error
}

func (r *recordingPublisher) PublishState(st models.ThermostatState) error {
	r.published = append(r.published, st)
	return r.err
}

func newInfo() *toon.ThermostatInfo {
	return &toon.ThermostatInfo{
		ActiveState:            3,
		BurnerInfo:             1,
		ProgramState:           1,
		CurrentSetpoint:        1950,
		CurrentTemp:            1875,
		CurrentModulationLevel: 40,
		BoilerSetpoint:         55,
	}
}

func TestPoller_SuccessSavesDecodedSnapshot(t *testing.T) {
	dev := &fakeDevice{infoResp: newInfo()}
	srepo := &fakeStateRepo{}
	pub := &recordingPublisher{}
	p := NewPollerService(dev, srepo, &fakeEventRepo{}, pub, nil)

	failing := false
	p.poll(context.Background(), time.Now(), &failing)

	st := lastSaved(t, srepo)
	if st.Preset != toon.PresetAway || st.Action != toon.ActionHeating || st.Mode != toon.ModeAuto {
		t.Fatalf("decoded snapshot wrong: %+v", st)
	}
	if st.TargetTempC != 19.5 || st.CurrentTempC != 18.75 {
		t.Fatalf("temperatures wrong: %+v", st)
	}
	if !st.Online {
		t.Fatal("snapshot must be marked online")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one published snapshot, got %d", len(pub.published))
	}
}

func TestPoller_FailureRetainsDecodedFields(t *testing.T) {
	prior := models.ThermostatState{
		ID: 1, Mode: toon.ModeAuto, Action: toon.ActionIdle, Preset: toon.PresetHome,
		CurrentTempC: 20.1, TargetTempC: 20.0, Online: true, UpdatedAt: time.Now().UTC(),
	}
	dev := &fakeDevice{infoErr: errors.New("timeout")}
	srepo := &fakeStateRepo{loadResp: prior}
	erepo := &fakeEventRepo{}
	p := NewPollerService(dev, srepo, erepo, nil, nil)

	failing := false
	p.poll(context.Background(), time.Now(), &failing)

	st := lastSaved(t, srepo)
	if st.Mode != prior.Mode || st.Preset != prior.Preset || st.CurrentTempC != prior.CurrentTempC || st.TargetTempC != prior.TargetTempC {
		t.Fatalf("decoded fields must survive a failed poll: %+v", st)
	}
	if st.Online {
		t.Fatal("snapshot must be marked offline")
	}
	if !failing {
		t.Fatal("failing flag must be set")
	}
}

func TestPoller_ErrorEventOnlyOnTransition(t *testing.T) {
	dev := &fakeDevice{infoErr: errors.New("unreachable")}
	erepo := &fakeEventRepo{}
	p := NewPollerService(dev, &fakeStateRepo{}, erepo, nil, nil)

	failing := false
	p.poll(context.Background(), time.Now(), &failing)
	p.poll(context.Background(), time.Now(), &failing)
	p.poll(context.Background(), time.Now(), &failing)

	var errs int
	for _, e := range erepo.events {
		if e.Type == "ERROR" {
			errs++
		}
	}
	if errs != 1 {
		t.Fatalf("expected a single ERROR event across consecutive failures, got %d", errs)
	}
	if dev.infoCalls != 3 {
		t.Fatalf("every tick must retry, got %d polls", dev.infoCalls)
	}
}

func TestPoller_ModeChangeEventOnTransition(t *testing.T) {
	dev := &fakeDevice{infoResp: newInfo()}
	srepo := &fakeStateRepo{loadResp: models.ThermostatState{
		ID: 1, Mode: toon.ModeHeat, Preset: toon.PresetHome, Online: true,
	}}
	erepo := &fakeEventRepo{}
	p := NewPollerService(dev, srepo, erepo, nil, nil)

	failing := false
	p.poll(context.Background(), time.Now(), &failing)

	if len(erepo.events) != 1 || erepo.events[0].Type != "MODE_CHANGE" {
		t.Fatalf("expected MODE_CHANGE event, got %+v", erepo.events)
	}
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	dev := &fakeDevice{infoResp: newInfo()}
	p := NewPollerService(dev, &fakeStateRepo{}, &fakeEventRepo{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
	if dev.infoCalls < 2 {
		t.Fatalf("expected repeated polls, got %d", dev.infoCalls)
	}
}
