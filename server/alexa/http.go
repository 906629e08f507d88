package alexa

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxEnvelopeBytes = 1 << 20

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var env RequestEnvelope
	dec := json.NewDecoder(io.LimitReader(r.Body, maxEnvelopeBytes))
	if err := dec.Decode(&env); err != nil {
		d.log.Debug("bad envelope", zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp, err := d.Dispatch(r.Context(), &env)
	if errors.Is(err, ErrWrongApplication) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		d.log.Warn("write response", zap.Error(err))
	}
}
