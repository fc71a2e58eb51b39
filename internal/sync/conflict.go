package sync

import (
	"log/slog"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
)

// Resolution is the outcome of a last-write-wins comparison for one id.
type Resolution struct {
	// ID is the message that was compared.
	ID int `json:"id" yaml:"id"`

	// Resolved is false when the id is missing from either store.
	Resolved bool `json:"resolved" yaml:"resolved"`

	// UseRemote is true when the remote version won.
	UseRemote bool `json:"use_remote" yaml:"use_remote"`

	// Winner is the winning content.
	Winner string `json:"winner" yaml:"winner"`

	// LocalTimestamp and RemoteTimestamp are the timestamps that were compared.
	LocalTimestamp  int64 `json:"local_timestamp" yaml:"local_timestamp"`
	RemoteTimestamp int64 `json:"remote_timestamp" yaml:"remote_timestamp"`
}

// WinningSide returns the side whose content won, or "" if unresolved.
func (r Resolution) WinningSide() model.Side {
	if !r.Resolved {
		return ""
	}
	if r.UseRemote {
		return model.Remote
	}
	return model.Local
}

// ResolveLWW picks between two versions of the same message. Remote wins
// only with a strictly greater timestamp; ties keep local.
func ResolveLWW(localMsg, remoteMsg model.Message) Resolution {
	useRemote := remoteMsg.Timestamp > localMsg.Timestamp

	winner := localMsg.Content()
	if useRemote {
		winner = remoteMsg.Content()
	}

	return Resolution{
		ID:              localMsg.ID,
		Resolved:        true,
		UseRemote:       useRemote,
		Winner:          winner,
		LocalTimestamp:  localMsg.Timestamp,
		RemoteTimestamp: remoteMsg.Timestamp,
	}
}

// ResolveConflict decides which version of id wins. Neither store is
// modified. When id is missing from either side the result has Resolved
// set to false.
func (e *Engine) ResolveConflict(id int) Resolution {
	localMsg, okLocal := e.local.Get(id)
	remoteMsg, okRemote := e.remote.Get(id)
	if !okLocal || !okRemote {
		logging.Debug("conflict unresolved: id missing",
			logging.MessageID(id),
			slog.Bool("in_local", okLocal),
			slog.Bool("in_remote", okRemote),
		)
		return Resolution{ID: id}
	}

	res := ResolveLWW(localMsg, remoteMsg)
	logging.Debug("conflict resolved",
		logging.MessageID(id),
		logging.Side(string(res.WinningSide())),
		slog.Int64("local_ts", localMsg.Timestamp),
		slog.Int64("remote_ts", remoteMsg.Timestamp),
	)
	return res
}
