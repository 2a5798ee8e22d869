package service

import (
	"testing"
	"time"

	"github.com/rosejohnson3923/pathfinity-app-sub012/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedulerFixture(room *model.Room) (*RoomScheduler, *managerFixture) {
	f := newManagerFixture(room)
	scheduler := NewRoomScheduler(engineTestConfig(), f.rooms, f.manager)
	return scheduler, f
}

func TestTick_StartsElapsedIntermission(t *testing.T) {
	room := intermissionRoom()
	past := time.Now().Add(-time.Second)
	room.NextGameStartsAt = &past
	scheduler, f := newSchedulerFixture(room)

	scheduler.Tick()

	got := f.rooms.get("room-1")
	assert.Equal(t, model.RoomActive, got.Status)
	assert.Equal(t, 1, got.GamesPlayed)
	require.NotNil(t, got.CurrentSessionID)

	// a second tick sees the room active and leaves it alone
	scheduler.Tick()
	got = f.rooms.get("room-1")
	assert.Equal(t, 1, got.GamesPlayed)
}

func TestTick_CountdownNotElapsed(t *testing.T) {
	room := intermissionRoom()
	future := time.Now().Add(time.Minute)
	room.NextGameStartsAt = &future
	scheduler, f := newSchedulerFixture(room)

	scheduler.Tick()

	got := f.rooms.get("room-1")
	assert.Equal(t, model.RoomIntermission, got.Status)
	assert.Equal(t, 0, got.GamesPlayed)
}

func TestTick_SkipsPausedRooms(t *testing.T) {
	room := intermissionRoom()
	room.Status = model.RoomPaused
	scheduler, f := newSchedulerFixture(room)

	scheduler.Tick()

	got := f.rooms.get("room-1")
	assert.Equal(t, model.RoomPaused, got.Status)
	assert.Equal(t, 0, got.GamesPlayed)
}

func TestTick_SelfHealsMissingCountdown(t *testing.T) {
	// intermission with no scheduled start should start immediately rather
	// than sit dark forever
	room := intermissionRoom()
	room.NextGameStartsAt = nil
	scheduler, f := newSchedulerFixture(room)

	scheduler.Tick()

	got := f.rooms.get("room-1")
	assert.Equal(t, model.RoomActive, got.Status)
	assert.Equal(t, 1, got.GamesPlayed)
}

func TestPauseAndResume(t *testing.T) {
	scheduler, f := newSchedulerFixture(intermissionRoom())

	require.NoError(t, scheduler.PauseRoom("room-1"))
	got := f.rooms.get("room-1")
	assert.Equal(t, model.RoomPaused, got.Status)
	assert.Nil(t, got.NextGameStartsAt)

	// paused rooms never start, even with Tick running
	scheduler.Tick()
	assert.Equal(t, 0, f.rooms.get("room-1").GamesPlayed)

	require.NoError(t, scheduler.ResumeRoom("room-1"))
	got = f.rooms.get("room-1")
	assert.Equal(t, model.RoomIntermission, got.Status)
	require.NotNil(t, got.NextGameStartsAt)
	assert.True(t, got.NextGameStartsAt.After(time.Now()))
}

func TestResumeRoom_NoopWhenNotPaused(t *testing.T) {
	scheduler, f := newSchedulerFixture(intermissionRoom())
	require.NoError(t, scheduler.ResumeRoom("room-1"))
	assert.Equal(t, model.RoomIntermission, f.rooms.get("room-1").Status)
	assert.Nil(t, f.rooms.get("room-1").NextGameStartsAt)
}

func TestForceStopRoom(t *testing.T) {
	room := intermissionRoom()
	room.NextGameStartsAt = nil
	scheduler, f := newSchedulerFixture(room)

	// nothing running yet
	require.NoError(t, scheduler.ForceStopRoom("room-1"))

	session, err := scheduler.StartRoom("room-1")
	require.NoError(t, err)

	require.NoError(t, scheduler.ForceStopRoom("room-1"))
	got := f.rooms.get("room-1")
	assert.Equal(t, model.RoomIntermission, got.Status)
	assert.Nil(t, got.CurrentSessionID)

	saved, err := f.store.FindByID(session.ID)
	require.NoError(t, err)
	assert.NotNil(t, saved.CompletedAt)
}

func TestHealthCheck_FlagsStuckRooms(t *testing.T) {
	room := intermissionRoom()
	overdue := time.Now().Add(-10 * time.Minute)
	room.NextGameStartsAt = &overdue
	scheduler, _ := newSchedulerFixture(room)

	report, err := scheduler.HealthCheck()
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Degraded)
	assert.GreaterOrEqual(t, report[0].StuckMinutes, 10)
}

func TestHealthCheck_HealthyRoom(t *testing.T) {
	room := intermissionRoom()
	soon := time.Now().Add(time.Minute)
	room.NextGameStartsAt = &soon
	scheduler, _ := newSchedulerFixture(room)

	report, err := scheduler.HealthCheck()
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.False(t, report[0].Degraded)
}

func TestRunStop(t *testing.T) {
	scheduler, _ := newSchedulerFixture(intermissionRoom())

	done := make(chan struct{})
	go func() {
		scheduler.Run()
		close(done)
	}()

	// give the loop a moment to come up, then stop it
	time.Sleep(20 * time.Millisecond)
	scheduler.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	// stopping twice is safe
	scheduler.Stop()
}
