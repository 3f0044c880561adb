package exam

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/api"
	ex "github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screens"
	"github.com/abhisek/examiz/internal/session"
)

func testBank() *ex.Bank {
	grammar := ex.Category{Slug: "grammar", Name: "Grammar"}
	vocab := ex.Category{Slug: "vocab", Name: "Vocabulary"}
	writing := ex.Category{Slug: "writing", Name: "Writing"}
	return ex.NewBank([]ex.Category{grammar, vocab, writing}, []ex.Question{
		{ID: 1, Category: grammar, Type: ex.TypeMultipleChoice, Text: "She ___ home.", Options: []string{"go", "went", "gone"}},
		{ID: 2, Category: grammar, Type: ex.TypeMultipleChoice, Text: "They ___ late.", Options: []string{"was", "were"}},
		{ID: 3, Category: vocab, Type: ex.TypeVocabulary, Text: "abundant", Options: []string{"scarce", "plentiful"}},
		{ID: 4, Category: vocab, Type: ex.TypeVocabulary, Text: "brief", Options: []string{"short", "long"}},
		{ID: 5, Category: writing, Type: ex.TypeTranslation, Text: "Hola, ¿cómo estás?"},
		{ID: 6, Category: writing, Type: ex.TypeWriting, Text: "Describe your city.", MinWords: 50},
	})
}

func testScreen(t *testing.T) (*ExamScreen, *api.MockClient) {
	t.Helper()
	bank := testBank()
	client := api.NewMockClient(bank)
	env := screens.NewEnv(client)
	env.CheckDelay = time.Millisecond

	state := session.NewSessionState(bank, "Ada", "attempt-1", session.NewDebouncer(env.CheckDelay, env.MinChars))
	s := New(env, state, 0)
	if s.Init() == nil {
		t.Fatal("Init should arm the clock")
	}
	return s, client
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var (
	tabKey      = specialKey(tea.KeyTab)
	shiftTabKey = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	enterKey    = specialKey(tea.KeyEnter)
	ctrlS       = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
)

func altKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModAlt}
}

func press(s *ExamScreen, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(k)
	}
	return cmd
}

// collect runs cmd and returns the messages produced within timeout,
// unpacking batches.
func collect(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(timeout):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c, timeout)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findDue(msgs []tea.Msg) (aiCheckDueMsg, bool) {
	for _, m := range msgs {
		if due, ok := m.(aiCheckDueMsg); ok {
			return due, true
		}
	}
	return aiCheckDueMsg{}, false
}

// typeText types text one rune at a time and returns the last command.
func typeText(s *ExamScreen, text string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range text {
		_, cmd = s.Update(keyPress(r))
	}
	return cmd
}

func TestExamScreen_Title(t *testing.T) {
	s, _ := testScreen(t)
	if s.Title() != "Exam" {
		t.Errorf("expected 'Exam', got %q", s.Title())
	}
}

func TestExamScreen_ClockTicks(t *testing.T) {
	s, _ := testScreen(t)

	_, cmd := s.Update(clockTickMsg(time.Now()))
	if cmd == nil {
		t.Error("a running clock should re-arm")
	}
	if s.state.Elapsed != time.Second {
		t.Errorf("expected 1s elapsed, got %v", s.state.Elapsed)
	}
	if !strings.Contains(s.Status(), "00:01") {
		t.Errorf("status should show the clock, got %q", s.Status())
	}
	if !strings.Contains(s.Status(), "Ada") {
		t.Errorf("status should show the name, got %q", s.Status())
	}
}

func TestExamScreen_DigitSelectsSynchronously(t *testing.T) {
	s, _ := testScreen(t)
	key := s.state.CurrentKey()

	press(s, keyPress('2'))
	idx, ok := s.state.Answers[key].Index()
	if !ok || idx != 1 {
		t.Fatalf("expected option 1 recorded, got %d (%v)", idx, ok)
	}
	if s.options.Picked != 1 {
		t.Errorf("expected option 1 marked, got %d", s.options.Picked)
	}
	if strings.Count(s.View(100, 40), "●") != 1+countDots(s, session.DotAnswered) {
		t.Error("exactly one option should render as picked")
	}

	press(s, keyPress('1'))
	idx, _ = s.state.Answers[key].Index()
	if idx != 0 || s.options.Picked != 0 {
		t.Errorf("expected overwrite to option 0, got answer %d picked %d", idx, s.options.Picked)
	}

	// Out-of-range digits are ignored.
	press(s, keyPress('9'))
	if idx, _ := s.state.Answers[key].Index(); idx != 0 {
		t.Errorf("digit beyond options should be ignored, got %d", idx)
	}
}

func countDots(s *ExamScreen, st session.DotState) int {
	n := 0
	for _, d := range s.state.Dots {
		if d.State == st {
			n++
		}
	}
	return n
}

func TestExamScreen_CursorThenEnter(t *testing.T) {
	s, _ := testScreen(t)
	press(s, specialKey(tea.KeyDown), specialKey(tea.KeyDown), enterKey)

	if idx, _ := s.state.Answers[s.state.CurrentKey()].Index(); idx != 2 {
		t.Errorf("expected option 2, got %d", idx)
	}
}

func TestExamScreen_PickSurvivesNavigation(t *testing.T) {
	s, _ := testScreen(t)
	press(s, keyPress('2'), tabKey, shiftTabKey)

	if s.state.Index != 0 {
		t.Fatalf("expected to be back on question 0, got %d", s.state.Index)
	}
	if s.options.Picked != 1 {
		t.Errorf("returning to a question should show its recorded answer, got %d", s.options.Picked)
	}
}

func TestExamScreen_RetreatDisabledAtSectionStart(t *testing.T) {
	s, _ := testScreen(t)

	press(s, shiftTabKey)
	if s.state.Index != 0 {
		t.Errorf("back at the first question should be a no-op, got %d", s.state.Index)
	}
	for _, h := range s.KeyHints() {
		if h.Description == "Back" {
			t.Error("Back should not be offered at the first question of a section")
		}
	}
}

func TestExamScreen_AltDigitJumpsWithinSection(t *testing.T) {
	s, _ := testScreen(t)

	press(s, altKey('2'))
	if s.state.Index != 1 {
		t.Errorf("expected jump to question 1, got %d", s.state.Index)
	}
	press(s, altKey('5'))
	if s.state.Index != 1 {
		t.Errorf("jump past the section should be ignored, got %d", s.state.Index)
	}
}

func TestExamScreen_SectionInterstitial(t *testing.T) {
	s, _ := testScreen(t)

	press(s, tabKey)
	if got := session.Nav(s.state).Label(); got != "Finish Section →" {
		t.Errorf("expected Finish Section, got %q", got)
	}

	press(s, tabKey)
	if s.state.Phase != session.PhaseSectionComplete {
		t.Fatalf("expected section-complete phase, got %v", s.state.Phase)
	}
	if s.state.Index != 1 {
		t.Errorf("index must not move into the next section yet, got %d", s.state.Index)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "finished the Grammar section") {
		t.Error("interstitial should name the finished section")
	}

	// Only enter continues.
	press(s, tabKey, keyPress('1'))
	if s.state.Phase != session.PhaseSectionComplete {
		t.Error("keys other than enter should be ignored on the interstitial")
	}

	press(s, enterKey)
	if s.state.Phase != session.PhaseInSection || s.state.Index != 2 {
		t.Errorf("expected first vocabulary question, got phase %v index %d", s.state.Phase, s.state.Index)
	}
	if len(s.state.Dots) != 2 || s.state.DotsSection != "vocab" {
		t.Errorf("dots should be rebuilt for the new section, got %d for %q", len(s.state.Dots), s.state.DotsSection)
	}
}

func TestExamScreen_TypingWritesAnswerMap(t *testing.T) {
	s, _ := testScreen(t)
	session.GoTo(s.state, 5)
	s.mount()

	typeText(s, "hello world")
	if got := s.state.Answers[s.state.CurrentKey()].Value(); got != "hello world" {
		t.Errorf("expected answer map to track the editor, got %q", got)
	}
	if !strings.Contains(s.View(100, 40), "Words: 2 / 50 min") {
		t.Error("writing questions should show a live word count")
	}
}

func TestExamScreen_AICheckFlagsWriting(t *testing.T) {
	s, client := testScreen(t)
	session.GoTo(s.state, 5)
	s.mount()
	key := s.state.CurrentKey()

	client.AddDetection(api.MockDetection{Detection: &api.Detection{Success: true, AIUsed: true, DetectionType: "copy"}})

	cmd := typeText(s, strings.Repeat("x", 30))
	due, ok := findDue(collect(cmd, 200*time.Millisecond))
	if !ok {
		t.Fatal("expected a check to be scheduled at 30 characters")
	}

	_, cmd = s.Update(due)
	if cmd == nil {
		t.Fatal("a current check should call the backend")
	}
	s.Update(cmd())

	flag, ok := s.state.Flags[key]
	if !ok || !flag.Used || flag.DetectionType != "copy" {
		t.Fatalf("expected copy flag, got %+v (%v)", flag, ok)
	}
	if flag.Text != strings.Repeat("x", 30) {
		t.Errorf("flag should carry the checked text, got %q", flag.Text)
	}
	if !strings.Contains(s.View(100, 40), "AI usage detected") {
		t.Error("writing questions should warn while flagged")
	}

	// A clean verdict clears the flag.
	client.AddDetection(api.MockDetection{Detection: &api.Detection{Success: true}})
	due, _ = findDue(collect(typeText(s, "y"), 200*time.Millisecond))
	_, cmd = s.Update(due)
	s.Update(cmd())
	if _, ok := s.state.Flags[key]; ok {
		t.Error("flag should clear when the backend reports no AI use")
	}
}

func TestExamScreen_ShortTextNeverChecked(t *testing.T) {
	s, client := testScreen(t)
	session.GoTo(s.state, 4)
	s.mount()

	cmd := typeText(s, strings.Repeat("x", 29))
	if _, ok := findDue(collect(cmd, 50*time.Millisecond)); ok {
		t.Error("29 characters should not schedule a check")
	}
	if client.DetectCount() != 0 {
		t.Errorf("expected no detect calls, got %d", client.DetectCount())
	}
}

func TestExamScreen_StaleCheckDiscarded(t *testing.T) {
	s, client := testScreen(t)
	session.GoTo(s.state, 4)
	s.mount()

	stale, ok := findDue(collect(typeText(s, strings.Repeat("x", 30)), 200*time.Millisecond))
	if !ok {
		t.Fatal("expected a scheduled check")
	}

	// A later edit supersedes the pending check.
	typeText(s, "z")
	if _, cmd := s.Update(stale); cmd != nil {
		t.Error("a superseded check must not reach the backend")
	}
	if client.DetectCount() != 0 {
		t.Errorf("expected no detect calls, got %d", client.DetectCount())
	}
}

func TestExamScreen_CheckFailureIsSilent(t *testing.T) {
	s, client := testScreen(t)
	session.GoTo(s.state, 4)
	s.mount()
	key := s.state.CurrentKey()
	s.state.Flags[key] = ex.AIFlag{Used: true, DetectionType: "generated", Text: "old"}

	client.AddDetection(api.MockDetection{Err: errors.New("timeout")})
	due, _ := findDue(collect(typeText(s, strings.Repeat("x", 31)), 200*time.Millisecond))
	_, cmd := s.Update(due)
	s.Update(cmd())

	if flag := s.state.Flags[key]; flag.Text != "old" {
		t.Errorf("a failed check must leave flags unchanged, got %+v", flag)
	}
	if s.submitError() != "" {
		t.Error("AI check failures should not surface as errors")
	}
}

func TestExamScreen_SubmitOnlyAtLastQuestion(t *testing.T) {
	s, _ := testScreen(t)

	if cmd := press(s, ctrlS); cmd != nil || s.confirming {
		t.Error("submit should be unavailable before the last question")
	}
}

// walkToEnd answers the first four questions and stops on the last one.
func walkToEnd(s *ExamScreen) {
	press(s, keyPress('1'), tabKey, keyPress('2'), tabKey, enterKey)
	press(s, keyPress('2'), tabKey, keyPress('1'), tabKey, enterKey)
	press(s, tabKey)
}

func TestExamScreen_Scenario_ThreeSectionsTwoQuestions(t *testing.T) {
	s, client := testScreen(t)
	correct := true
	client.AddSubmit(api.MockSubmit{Response: &api.SubmitResponse{
		Success: true,
		ExamID:  "exam-42",
		Score:   api.Score{Correct: 4, Total: 6},
		Review: []api.ReviewItem{
			{QuestionID: 1, Category: "grammar", QuestionType: "multiple_choice", IsCorrect: &correct},
			{QuestionID: 2, Category: "grammar", QuestionType: "multiple_choice", IsCorrect: &correct},
			{QuestionID: 3, Category: "vocab", QuestionType: "vocabulary", IsCorrect: &correct},
			{QuestionID: 4, Category: "vocab", QuestionType: "vocabulary", IsCorrect: &correct},
		},
	}})

	press(s, keyPress('1'), tabKey, keyPress('2'), tabKey, enterKey)
	press(s, keyPress('2'), tabKey, keyPress('1'), tabKey, enterKey)

	if s.state.Index != 4 {
		t.Fatalf("expected to arrive at question 5, got index %d", s.state.Index)
	}
	if !s.state.Completed["grammar"] || !s.state.Completed["vocab"] || s.state.Completed["writing"] {
		t.Errorf("unexpected completed sections %v", s.state.Completed)
	}

	press(s, tabKey)
	if session.Nav(s.state) != session.NavSubmit {
		t.Fatal("the last question should offer Submit")
	}

	press(s, ctrlS)
	if !s.confirming {
		t.Fatal("submit should ask for confirmation")
	}
	cmd := press(s, keyPress('y'))
	if cmd == nil {
		t.Fatal("confirming should submit")
	}
	if s.state.Phase != session.PhaseSubmitting {
		t.Fatalf("expected submitting phase, got %v", s.state.Phase)
	}
	if again := press(s, ctrlS); again != nil {
		t.Error("a second submit while in flight must be blocked")
	}

	_, cmd = s.Update(cmd())
	if s.state.Phase != session.PhaseResults {
		t.Fatalf("expected results phase, got %v", s.state.Phase)
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg to the results screen")
	}

	req := client.SubmitCalls[0]
	if len(req.Answers) != 4 {
		t.Errorf("expected 4 answers, got %d", len(req.Answers))
	}
	if !reflect.DeepEqual(req.Categories, []string{"grammar", "vocab", "writing"}) {
		t.Errorf("unexpected categories %v", req.Categories)
	}
	if req.StudentName != "Ada" {
		t.Errorf("expected student Ada, got %q", req.StudentName)
	}

	view := replace.Screen.View(120, 50)
	for _, want := range []string{"67%", "Grammar Review", "Vocabulary Review", "exam-42"} {
		if !strings.Contains(view, want) {
			t.Errorf("results view missing %q", want)
		}
	}
	if strings.Contains(view, "Writing Review") {
		t.Error("unattempted section should have no review tab")
	}

	// The clock is frozen after a successful submission.
	elapsed := s.state.Elapsed
	if _, cmd := s.Update(clockTickMsg(time.Now())); cmd != nil || s.state.Elapsed != elapsed {
		t.Error("clock should stop after submission")
	}
}

func TestExamScreen_SubmitFailureIsRecoverable(t *testing.T) {
	s, client := testScreen(t)
	client.AddSubmit(api.MockSubmit{Err: &api.ErrUnreachable{URL: "http://x/api/submit-exam/", Err: errors.New("refused")}})

	walkToEnd(s)
	before := s.state.Answers.Clone()
	s.Update(clockTickMsg(time.Now()))
	elapsed := s.state.Elapsed

	cmd := press(s, ctrlS, keyPress('y'))
	_, next := s.Update(cmd())
	if next != nil {
		t.Error("a failed submission should not leave the exam screen")
	}

	if s.state.Phase != session.PhaseInSection {
		t.Fatalf("expected to return to the exam, got %v", s.state.Phase)
	}
	if !reflect.DeepEqual(before, s.state.Answers) {
		t.Error("answers must be untouched by a failed submission")
	}
	if s.state.Elapsed != elapsed {
		t.Error("elapsed time must be untouched by a failed submission")
	}
	if !strings.Contains(s.View(100, 40), "Cannot reach the exam server") {
		t.Error("the failure should be visible")
	}

	// Submit is enabled again.
	press(s, ctrlS)
	if !s.confirming {
		t.Error("submit should be available for a retry")
	}
}

func TestExamScreen_ConfirmCanBeDeclined(t *testing.T) {
	s, client := testScreen(t)
	walkToEnd(s)

	if cmd := press(s, ctrlS, keyPress('n')); cmd != nil {
		t.Error("declining should not submit")
	}
	if s.confirming || s.state.Phase != session.PhaseInSection {
		t.Error("declining should return to the question")
	}
	if len(client.SubmitCalls) != 0 {
		t.Errorf("expected no submit calls, got %d", len(client.SubmitCalls))
	}
}

func TestExamScreen_ZeroAnswersSubmit(t *testing.T) {
	s, client := testScreen(t)
	client.AddSubmit(api.MockSubmit{Response: &api.SubmitResponse{Success: true, Score: api.Score{Correct: 0, Total: 6}}})

	press(s, tabKey, tabKey, enterKey, tabKey, tabKey, enterKey, tabKey)
	cmd := press(s, tabKey, keyPress('y'))
	if cmd == nil {
		t.Fatal("tab on the last question should open the confirmation and submit on y")
	}
	_, next := s.Update(cmd())
	if next == nil {
		t.Fatal("expected transition to results")
	}

	req := client.SubmitCalls[0]
	if req.Answers == nil || len(req.Answers) != 0 {
		t.Errorf("expected an empty, non-nil answer map, got %v", req.Answers)
	}
	if !strings.Contains(next().(router.ReplaceScreenMsg).Screen.View(120, 50), "0%") {
		t.Error("results should show 0%")
	}
}

func TestExamScreen_WindowResizeWidensEditor(t *testing.T) {
	s, _ := testScreen(t)
	s.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if s.editorWidth() != 108 {
		t.Errorf("expected editor width 108, got %d", s.editorWidth())
	}
}
