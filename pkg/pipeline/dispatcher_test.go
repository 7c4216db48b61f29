package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
	amock "github.com/blaubaer/focus-reader/pkg/accessibility/mock"
	omock "github.com/blaubaer/focus-reader/pkg/overlay/mock"
	"github.com/blaubaer/focus-reader/pkg/screen"
	smock "github.com/blaubaer/focus-reader/pkg/speech/mock"
)

type recordingPrinter struct {
	printed []string
	mutex   sync.Mutex
}

func (this *recordingPrinter) Print(text string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.printed = append(this.printed, text)
	return nil
}

func (this *recordingPrinter) Printed() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return append([]string{}, this.printed...)
}

type pipelineFixture struct {
	*Pipeline
	tree    *amock.Tree
	voice   *smock.Voice
	surface *omock.Surface
	printer *recordingPrinter
}

var (
	pointA = screen.Point{X: 15, Y: 35}
	pointB = screen.Point{X: 15, Y: 55}
	pointC = screen.Point{X: 15, Y: 75}
)

func newPipelineFixture(t *testing.T, root *amock.Node, settleDelay time.Duration) *pipelineFixture {
	conf := NewConfiguration()
	conf.SettleDelay = settleDelay
	conf.PollInterval = time.Millisecond

	result := &pipelineFixture{
		tree:    amock.NewTree(root),
		voice:   &smock.Voice{},
		surface: &omock.Surface{},
		printer: &recordingPrinter{},
	}
	result.Pipeline = New(result.tree, result.voice, result.surface, conf, result.printer)
	t.Cleanup(func() {
		result.Close()
		assert.Equal(t, int64(0), result.tree.Outstanding())
	})
	return result
}

func (this *pipelineFixture) idle() bool {
	return !this.Player.Busy() && this.Player.State() == StateIdle
}

func (this *pipelineFixture) pointerAt(t *testing.T, p screen.Point) {
	t.Helper()
	require.NoError(t, this.PointerAt(context.Background(), p))
	require.Eventually(t, this.idle, eventually, tick)
}

func (this *pipelineFixture) navigate(t *testing.T, n Navigation) {
	t.Helper()
	require.NoError(t, this.Navigate(context.Background(), n))
	require.Eventually(t, this.idle, eventually, tick)
}

func windowTree() (root, a, b, c *amock.Node) {
	a = amock.NewNode("A", region(1))
	b = amock.NewNode("B", region(2))
	c = amock.NewNode("C", region(3))
	root = amock.NewNode("Window", region(0), a, b, c)
	return
}

func TestDispatcher_OnFocusCandidate_pointer(t *testing.T) {
	button := amock.NewNode("Submit", region(1))
	f := newPipelineFixture(t, amock.NewNode("Window", region(0), button), 0)
	f.tree.Place(pointA, button)

	f.pointerAt(t, pointA)

	assert.Equal(t, []string{"Submit"}, f.voice.Spoken())
	assert.Equal(t, []screen.Region{region(1)}, f.surface.Drawn())
	assert.Equal(t, []string{"Submit"}, f.printer.Printed())
	assert.Equal(t, 0, f.surface.Visible())
}

func TestDispatcher_OnFocusCandidate_sameElementTwice(t *testing.T) {
	root, a, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointA, a)
	f.tree.Place(pointB, a)

	f.pointerAt(t, pointA)
	f.pointerAt(t, pointB)
	f.pointerAt(t, pointA)

	assert.Equal(t, []string{"A"}, f.voice.Spoken())
	assert.Equal(t, []string{"A"}, f.printer.Printed())
}

func TestDispatcher_OnFocusCandidate_rapidMovement(t *testing.T) {
	root := amock.NewNode("Window", region(0))
	f := newPipelineFixture(t, root, 250*time.Millisecond)
	var points []screen.Point
	for i, name := range []string{"one", "two", "three", "four", "five"} {
		p := screen.Point{X: int32(i), Y: 1}
		f.tree.Place(p, amock.NewNode(name, region(int32(i))))
		points = append(points, p)
	}

	var wg sync.WaitGroup
	for _, p := range points {
		wg.Add(1)
		go func(p screen.Point) {
			defer wg.Done()
			assert.NoError(t, f.PointerAt(context.Background(), p))
		}(p)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()
	require.Eventually(t, f.idle, eventually, tick)

	assert.Equal(t, []string{"five"}, f.voice.Spoken())
	assert.Equal(t, []string{"five"}, f.printer.Printed())
	assert.Equal(t, []screen.Region{region(4)}, f.surface.Drawn())
}

func TestDispatcher_OnFocusCandidate_navigation(t *testing.T) {
	root, _, b, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointB, b)

	f.navigate(t, NavigationNextSibling)
	assert.Empty(t, f.voice.Spoken())

	f.pointerAt(t, pointB)
	f.navigate(t, NavigationNextSibling)
	f.navigate(t, NavigationNextSibling)
	f.navigate(t, NavigationPreviousSibling)
	f.navigate(t, NavigationParent)
	f.navigate(t, NavigationParent)
	f.navigate(t, NavigationFirstChild)

	assert.Equal(t, []string{"B", "C", "B", "Window", "A", "B", "C", "A"}, f.voice.Spoken())
	assert.Equal(t, []string{"B", "C", "B", "Window A B C", "A"}, f.printer.Printed())
}

func TestDispatcher_OnFocusCandidate_redo(t *testing.T) {
	root, a, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointA, a)

	f.navigate(t, NavigationRedo)
	f.pointerAt(t, pointA)
	f.navigate(t, NavigationRedo)
	f.pointerAt(t, pointA)

	assert.Equal(t, []string{"A", "A"}, f.voice.Spoken())
}

func TestDispatcher_OnFocusCandidate_pointerFails(t *testing.T) {
	root, _, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.PointErr = errors.New("expected")

	err := f.PointerAt(context.Background(), pointA)

	assert.ErrorIs(t, err, f.tree.PointErr)
	assert.Empty(t, f.voice.Spoken())
}

func TestDispatcher_OnFocusCandidate_nothingAtPoint(t *testing.T) {
	root, _, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)

	f.pointerAt(t, pointC)

	assert.Empty(t, f.voice.Spoken())
	assert.Nil(t, f.Dispatcher.Current())
}

func TestDispatcher_Pause(t *testing.T) {
	root, a, b, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.voice.Polls = -1
	f.tree.Place(pointA, a)
	f.tree.Place(pointB, b)

	require.NoError(t, f.PointerAt(context.Background(), pointA))
	require.Eventually(t, f.voice.Running, eventually, tick)

	f.Pause(PauseReasonUser)
	f.Pause(PauseReasonMicrophone)
	require.Eventually(t, f.idle, eventually, tick)
	assert.False(t, f.voice.Running())
	assert.Equal(t, 0, f.surface.Visible())

	f.pointerAt(t, pointB)
	f.Resume(PauseReasonUser)
	f.pointerAt(t, pointB)
	assert.True(t, f.Dispatcher.Paused())
	assert.Equal(t, "microphone", f.Dispatcher.PausedBy().String())

	f.voice.Polls = 0
	f.Resume(PauseReasonMicrophone)
	f.pointerAt(t, pointB)

	assert.Equal(t, []string{"A", "B"}, f.voice.Spoken())
}

func TestDispatcher_Pause_whileResolving(t *testing.T) {
	root, a, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointA, a)
	resolving := make(chan struct{})
	release := make(chan struct{})
	f.tree.OnElementFromPoint = func(screen.Point) {
		close(resolving)
		<-release
	}

	done := make(chan error, 1)
	go func() {
		done <- f.PointerAt(context.Background(), pointA)
	}()
	<-resolving
	f.Pause(PauseReasonUser)
	close(release)
	require.NoError(t, <-done)
	require.Eventually(t, f.idle, eventually, tick)

	assert.True(t, f.Dispatcher.Paused())
	assert.Empty(t, f.voice.Spoken())
	assert.Empty(t, f.surface.Drawn())
	assert.Empty(t, f.printer.Printed())
	assert.Nil(t, f.Dispatcher.Current())
}

func TestDispatcher_OnFocusCandidate_canceledWhileResolving(t *testing.T) {
	root, a, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointA, a)
	ctx, cancel := context.WithCancel(context.Background())
	f.tree.OnElementFromPoint = func(screen.Point) {
		cancel()
	}

	require.NoError(t, f.PointerAt(ctx, pointA))
	require.Eventually(t, f.idle, eventually, tick)

	assert.Empty(t, f.voice.Spoken())
	assert.Nil(t, f.Dispatcher.Current())
}

func TestDispatcher_Filter(t *testing.T) {
	root, a, b, _ := windowTree()
	b.ProcessID = 42
	f := newPipelineFixture(t, root, 0)
	f.Dispatcher.Filter = func(tree accessibility.Tree, e accessibility.Element) bool {
		pid, err := tree.ProcessID(e)
		return err == nil && pid != 42
	}
	f.tree.Place(pointA, a)
	f.tree.Place(pointB, b)

	f.pointerAt(t, pointA)
	f.pointerAt(t, pointB)
	f.pointerAt(t, pointA)

	assert.Equal(t, []string{"A", "A"}, f.voice.Spoken())
}

func TestDispatcher_Reset(t *testing.T) {
	root, a, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointA, a)

	f.pointerAt(t, pointA)
	f.Reset()
	assert.Nil(t, f.Dispatcher.Current())
	f.pointerAt(t, pointA)

	assert.Equal(t, []string{"A", "A"}, f.voice.Spoken())
}

func TestPauseReason_Set(t *testing.T) {
	var actual PauseReason
	require.NoError(t, actual.Set("mic"))
	assert.Equal(t, PauseReasonMicrophone, actual)
	require.NoError(t, actual.Set("User"))
	assert.Equal(t, PauseReasonUser, actual)
	assert.Error(t, actual.Set("foo"))

	assert.Equal(t, "none", PauseReasons(0).String())
	assert.Equal(t, "user,microphone", PauseReasons(0).With(PauseReasonMicrophone).With(PauseReasonUser).String())
}

func TestNavigation_Set(t *testing.T) {
	for _, expected := range AllNavigations {
		var actual Navigation
		require.NoError(t, actual.Set(expected.String()))
		assert.Equal(t, expected, actual)
	}
	var actual Navigation
	assert.Error(t, actual.Set("sideways"))
}

func TestTextRegionPolicy_UnmarshalText(t *testing.T) {
	var actual TextRegionPolicy
	require.NoError(t, actual.UnmarshalText([]byte("union")))
	assert.Equal(t, TextRegionUnion, actual)
	assert.Error(t, actual.UnmarshalText([]byte("first")))

	text, err := TextRegionLast.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "last", string(text))
}

func TestPipeline_Status(t *testing.T) {
	root, a, _, _ := windowTree()
	f := newPipelineFixture(t, root, 0)
	f.tree.Place(pointA, a)

	assert.Equal(t, "state=idle pending=0 generation=0 paused=none", f.Status().String())

	f.pointerAt(t, pointA)
	f.Pause(PauseReasonUser)

	actual := f.Status()
	assert.Equal(t, StateIdle, actual.State)
	assert.Equal(t, 0, actual.Pending)
	assert.Equal(t, Generation(2), actual.Generation)
	assert.True(t, actual.PausedBy.Has(PauseReasonUser))
}
