package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ytget/voicepack/internal/model"
	"github.com/ytget/voicepack/internal/workspace"
)

// SkipAnswer declines naming a job
const SkipAnswer = "-"

// interactor answers every question the shell may ask
type interactor interface {
	AskName(ctx context.Context, job model.ConversionJob) (string, bool)
	ConfirmOverwrite(ctx context.Context, job model.ConversionJob) bool
	DecideSave(title string) workspace.Decision
	WaitForStop(name string)
}

// linePrompter asks on a terminal, one answer per line. Input is read by a
// single goroutine so a question can be abandoned when its context ends.
type linePrompter struct {
	mu    sync.Mutex
	in    *bufio.Reader
	out   io.Writer
	loc   *Localization
	once  sync.Once
	lines chan string
}

func newLinePrompter(in io.Reader, out io.Writer, loc *Localization) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out, loc: loc}
}

// readLoop feeds trimmed lines to p.lines and closes it on EOF
func (p *linePrompter) readLoop() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		p.lines <- strings.TrimSpace(line)
		if err != nil {
			return
		}
	}
}

// ask prints text and waits for the next line. ok is false on EOF or when
// ctx ends first; an unanswered line is kept for the next question.
func (p *linePrompter) ask(ctx context.Context, text string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.once.Do(func() {
		p.lines = make(chan string)
		go p.readLoop()
	})

	fmt.Fprint(p.out, text)
	select {
	case answer, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(p.out)
		}
		return answer, ok
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", false
	}
}

// AskName proposes the source base name; an empty answer accepts it
func (p *linePrompter) AskName(ctx context.Context, job model.ConversionJob) (string, bool) {
	answer, ok := p.ask(ctx, p.loc.Sprintf(KeyAskName, job.SourcePath, job.ProposedName))
	if !ok || answer == SkipAnswer {
		return "", false
	}
	if answer == "" {
		return job.ProposedName, true
	}
	return answer, true
}

func (p *linePrompter) ConfirmOverwrite(ctx context.Context, job model.ConversionJob) bool {
	answer, ok := p.ask(ctx, p.loc.Sprintf(KeyConfirmOverwrite, job.Name))
	return ok && isYes(answer)
}

func (p *linePrompter) DecideSave(title string) workspace.Decision {
	answer, ok := p.ask(context.Background(), p.loc.Sprintf(KeySaveChanges, title))
	if !ok {
		return workspace.DecisionCancel
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "save":
		return workspace.DecisionSave
	case "n", "no", "d", "discard":
		return workspace.DecisionDiscard
	default:
		return workspace.DecisionCancel
	}
}

func (p *linePrompter) WaitForStop(name string) {
	p.ask(context.Background(), p.loc.Sprintf(KeyPressEnter, name))
}

// autoPrompter accepts every proposal without reading input. Playback still
// waits on the terminal.
type autoPrompter struct {
	*linePrompter
}

func (autoPrompter) AskName(ctx context.Context, job model.ConversionJob) (string, bool) {
	return job.ProposedName, job.ProposedName != ""
}

func (autoPrompter) ConfirmOverwrite(ctx context.Context, job model.ConversionJob) bool {
	return true
}

func (autoPrompter) DecideSave(title string) workspace.Decision {
	return workspace.DecisionSave
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes", "是":
		return true
	}
	return false
}
