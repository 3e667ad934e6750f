package automation

import (
	"context"
	"sync"
	"time"

	"github.com/fourmaq/nfe-robot/internal/domain/entity"
	"github.com/fourmaq/nfe-robot/pkg/logger"
)

// recorder registra a ordem global de eventos entre superfície e repositório,
// para afirmar invariantes de sequência (tentativa antes da UI, etc).
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) has(event string) bool {
	for _, e := range r.all() {
		if e == event {
			return true
		}
	}
	return false
}

// fakeSurface superfície roteirizada: toda primitiva registra o evento e
// consulta os mapas de roteiro. Texto não roteirizado responde vazio; espera
// não roteirizada responde sucesso.
type fakeSurface struct {
	rec      *recorder
	texts    map[string][]string // fila de respostas por seletor
	checked  map[string]bool
	failures map[string]error // "op seletor" -> erro
}

func newFakeSurface(rec *recorder) *fakeSurface {
	return &fakeSurface{
		rec:      rec,
		texts:    map[string][]string{},
		checked:  map[string]bool{},
		failures: map[string]error{},
	}
}

func (f *fakeSurface) step(op, sel string) error {
	f.rec.add(op + " " + sel)
	return f.failures[op+" "+sel]
}

func (f *fakeSurface) Navigate(_ context.Context, url string) error {
	return f.step("navigate", url)
}

func (f *fakeSurface) Fill(_ context.Context, sel, _ string) error {
	return f.step("fill", sel)
}

func (f *fakeSurface) Click(_ context.Context, sel string) error {
	return f.step("click", sel)
}

func (f *fakeSurface) SelectOption(_ context.Context, sel, _ string) error {
	return f.step("select", sel)
}

func (f *fakeSurface) Check(_ context.Context, sel string) error {
	if err := f.step("check", sel); err != nil {
		return err
	}
	f.checked[sel] = true
	return nil
}

func (f *fakeSurface) IsChecked(_ context.Context, sel string) (bool, error) {
	if err := f.step("ischecked", sel); err != nil {
		return false, err
	}
	return f.checked[sel], nil
}

func (f *fakeSurface) InnerText(_ context.Context, sel string, _ time.Duration) (string, error) {
	if err := f.step("text", sel); err != nil {
		return "", err
	}
	queue := f.texts[sel]
	if len(queue) == 0 {
		return "", nil
	}
	text := queue[0]
	if len(queue) > 1 {
		f.texts[sel] = queue[1:]
	}
	return text, nil
}

func (f *fakeSurface) WaitVisible(_ context.Context, sel string, _ time.Duration) error {
	return f.step("wait", sel)
}

func (f *fakeSurface) WaitLoad(_ context.Context) error {
	return f.step("waitload", "")
}

func (f *fakeSurface) Sleep(_ context.Context, _ time.Duration) error {
	return nil
}

func (f *fakeSurface) FrameClick(_ context.Context, frame, sel string) error {
	return f.step("frameclick", frame+" "+sel)
}

func (f *fakeSurface) FrameCheck(_ context.Context, frame, sel string) error {
	return f.step("framecheck", frame+" "+sel)
}

func (f *fakeSurface) FrameSelect(_ context.Context, frame, sel, _ string) error {
	return f.step("frameselect", frame+" "+sel)
}

func (f *fakeSurface) Screenshot(_ context.Context, path string) error {
	return f.step("shot", path)
}

// fakeInvoiceRepo repositório roteirizado de notas.
type fakeInvoiceRepo struct {
	rec *recorder

	incrementOK  bool
	incrementErr error
	increments   int

	claimOK  bool
	claimErr error
	claims   [][2]int

	statusOK     map[int]bool // default: true
	statusErr    map[int]error
	statusWrites []int
}

func newFakeInvoiceRepo(rec *recorder) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		rec:         rec,
		incrementOK: true,
		claimOK:     true,
		statusOK:    map[int]bool{},
		statusErr:   map[int]error{},
	}
}

func (f *fakeInvoiceRepo) FetchPending(_ context.Context, _, _ int) ([]entity.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceRepo) SetStatus(_ context.Context, _ string, status int) (bool, error) {
	f.rec.add("setstatus")
	f.statusWrites = append(f.statusWrites, status)
	if err := f.statusErr[status]; err != nil {
		return false, err
	}
	if ok, scripted := f.statusOK[status]; scripted {
		return ok, nil
	}
	return true, nil
}

func (f *fakeInvoiceRepo) ClaimLaunching(_ context.Context, _ string, from, to int) (bool, error) {
	f.rec.add("claim")
	f.claims = append(f.claims, [2]int{from, to})
	return f.claimOK, f.claimErr
}

func (f *fakeInvoiceRepo) IncrementAttempts(_ context.Context, _ string) (bool, error) {
	f.rec.add("increment")
	f.increments++
	return f.incrementOK, f.incrementErr
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
