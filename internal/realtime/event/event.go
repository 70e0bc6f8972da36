package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/campolink/campolink/internal/common/cnst"
)

// Event names broadcast to every authenticated connection. The vocabulary is
// closed: producers emit these and nothing else.
const (
	LoteEstadoActualizado    = "lote-estado-actualizado"
	LoteLiberado             = "lote-liberado"
	CultivoEstadoActualizado = "cultivo-estado-actualizado"
	SubloteEstadoActualizado = "sublote-estado-actualizado"
	SubloteLiberado          = "sublote-liberado"
)

// Direct-reply names: sent to a single requesting connection, never broadcast.
const (
	Ping                        = "ping"
	Pong                        = "pong"
	SolicitarActualizacionLotes = "solicitar-actualizacion-lotes"
	ActualizacionSolicitada     = "actualizacion-solicitada"
)

// Envelope is the wire frame: {"event": <name>, "data": <payload>}.
// Source is set only on backplane frames so a hub can recognize its own
// publications; it never reaches clients.
type Envelope struct {
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
	Source string          `json:"source,omitempty"`
}

// Payload is implemented by every typed event payload
type Payload interface {
	EventName() string
}

// LoteEstado is the payload of lote-estado-actualizado
type LoteEstado struct {
	LoteID      int64  `json:"loteId"`
	NuevoEstado string `json:"nuevoEstado"`
	LoteNombre  string `json:"loteNombre,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func (LoteEstado) EventName() string { return LoteEstadoActualizado }

// LoteLibre is the payload of lote-liberado
type LoteLibre struct {
	LoteID     int64  `json:"loteId"`
	LoteNombre string `json:"loteNombre,omitempty"`
	Timestamp  string `json:"timestamp"`
}

func (LoteLibre) EventName() string { return LoteLiberado }

// CultivoEstado is the payload of cultivo-estado-actualizado
type CultivoEstado struct {
	CultivoID     int64  `json:"cultivoId"`
	NuevoEstado   string `json:"nuevoEstado"`
	CultivoNombre string `json:"cultivoNombre,omitempty"`
	Timestamp     string `json:"timestamp"`
}

func (CultivoEstado) EventName() string { return CultivoEstadoActualizado }

// SubloteEstado is the payload of sublote-estado-actualizado
type SubloteEstado struct {
	SubloteID     int64  `json:"subloteId"`
	NuevoEstado   string `json:"nuevoEstado"`
	SubloteNombre string `json:"subloteNombre,omitempty"`
	Timestamp     string `json:"timestamp"`
}

func (SubloteEstado) EventName() string { return SubloteEstadoActualizado }

// SubloteLibre is the payload of sublote-liberado
type SubloteLibre struct {
	SubloteID     int64  `json:"subloteId"`
	SubloteNombre string `json:"subloteNombre,omitempty"`
	Timestamp     string `json:"timestamp"`
}

func (SubloteLibre) EventName() string { return SubloteLiberado }

// Ack is the empty payload of pong and actualizacion-solicitada replies
type Ack struct {
	name string
}

func (a Ack) EventName() string { return a.name }

// AckOf builds an acknowledgment payload for the given reply name
func AckOf(name string) Ack { return Ack{name: name} }

// Now returns the emission timestamp in the wire format (ISO-8601 UTC)
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Encode wraps a payload in its wire envelope
func Encode(p Payload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", p.EventName(), err)
	}
	return json.Marshal(Envelope{Event: p.EventName(), Data: data})
}

// DecodeFrame parses a raw wire frame into its envelope
func DecodeFrame(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &env, nil
}

// Decode converts a wire payload into its typed variant. Unknown names are
// an error: consumers never guess a payload shape from the name string.
func Decode(name string, data json.RawMessage) (Payload, error) {
	var p Payload
	switch name {
	case LoteEstadoActualizado:
		p = &LoteEstado{}
	case LoteLiberado:
		p = &LoteLibre{}
	case CultivoEstadoActualizado:
		p = &CultivoEstado{}
	case SubloteEstadoActualizado:
		p = &SubloteEstado{}
	case SubloteLiberado:
		p = &SubloteLibre{}
	case Pong:
		return Ack{name: Pong}, nil
	case ActualizacionSolicitada:
		return Ack{name: ActualizacionSolicitada}, nil
	default:
		return nil, fmt.Errorf("%w: %q", cnst.ErrUnknownEvent, name)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", name, err)
		}
	}
	return deref(p), nil
}

// deref returns the value behind the decode target so callers can switch on
// value types
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *LoteEstado:
		return *v
	case *LoteLibre:
		return *v
	case *CultivoEstado:
		return *v
	case *SubloteEstado:
		return *v
	case *SubloteLibre:
		return *v
	default:
		return p
	}
}
