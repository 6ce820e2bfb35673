package state

import "github.com/vbonduro/atozbnb/internal/domain"

type SessionState struct {
	User *domain.User
}

type SetUser struct{ User *domain.User }

type RemoveUser struct{}

func (SetUser) Type() string    { return "session/SET_USER" }
func (RemoveUser) Type() string { return "session/REMOVE_USER" }

func reduceSession(s SessionState, action Action) SessionState {
	switch a := action.(type) {
	case SetUser:
		if a.User == nil {
			return SessionState{}
		}
		user := *a.User
		return SessionState{User: &user}
	case RemoveUser:
		return SessionState{}
	}
	return s
}
