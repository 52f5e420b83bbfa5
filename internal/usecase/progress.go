package usecase

// ProgressObserver recebe o percentual (0..100) ao fim de cada lote gravado.
// É chamado de forma síncrona, no mesmo fluxo que dirige o laço de lotes.
type ProgressObserver interface {
	BatchCompleted(percent int)
}

// ProgressFunc adapta uma função comum para ProgressObserver.
type ProgressFunc func(percent int)

func (f ProgressFunc) BatchCompleted(percent int) {
	f(percent)
}
