package core

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/steptrack/core/series"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/schema"
)

// currentDraftVersion defines the version of the draft payload schema
const currentDraftVersion = 2

// draftPayload is what the draft store holds for a session. Series points
// carry the layout offset, so the offset is stored with them.
type draftPayload struct {
	LineOffset float64         `json:"lineOffset"`
	Document   schema.Document `json:"document"`
}

// errNoDrafts is returned when drafts are requested from an editor without a draft store.
var errNoDrafts = errors.New("draft storage is disabled")

// DraftKey returns the draft store key of a session.
func DraftKey(ref schema.SessionRef) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(ref.Key())))
}

// SaveDraft writes the visible document to the draft store.
func (e *Editor) SaveDraft() error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if e.drafts == nil {
		return errNoDrafts
	}
	data, err := json.Marshal(draftPayload{LineOffset: e.layout.LineOffset, Document: e.doc})
	if err != nil {
		return err
	}
	return e.drafts.Set(DraftKey(e.ref), data, currentDraftVersion, e.now().Unix())
}

// RestoreDraft replaces the visible document with the stored draft of the open
// session, as a regular undoable edit. It reports false when no usable draft exists.
func (e *Editor) RestoreDraft() (bool, error) {
	if err := e.requireOpen(); err != nil {
		return false, err
	}
	if e.drafts == nil {
		return false, errNoDrafts
	}
	doc, ok := checkDraft(e.drafts, DraftKey(e.ref), e.doc, e.layout)
	if !ok {
		return false, nil
	}
	err := e.apply(func(schema.Document) (schema.Document, bool, error) {
		return doc, true, nil
	})
	return err == nil, err
}

// DiscardDraft removes the stored draft of the open session.
func (e *Editor) DiscardDraft() error {
	if err := e.requireOpen(); err != nil {
		return err
	}
	if e.drafts == nil {
		return errNoDrafts
	}
	return e.drafts.Delete(DraftKey(e.ref))
}

func (e *Editor) discardDraft() {
	if e.drafts == nil {
		return
	}
	if err := e.drafts.Delete(DraftKey(e.ref)); err != nil {
		contract.LogWarn("Draft cleanup failed", err)
	}
}

// checkDraft attempts to retrieve and validate a stored draft. The draft must
// have been saved under the same layout and hold the same scales, in the same
// order, as the open document.
func checkDraft(drafts contract.DraftStore, key string, open schema.Document, layout series.Layout) (schema.Document, bool) {
	data, version, _, err := drafts.Get(key)
	if err != nil || version != currentDraftVersion {
		return schema.Document{}, false
	}
	var payload draftPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return schema.Document{}, false
	}
	doc := payload.Document
	if doc.Duration <= 0 || payload.LineOffset != layout.LineOffset || len(doc.Series) != len(open.Series) {
		return schema.Document{}, false
	}
	for i, s := range doc.Series {
		if s.Scale != open.Series[i].Scale || series.Validate(s.Points) != nil {
			return schema.Document{}, false
		}
	}
	return doc, true
}
