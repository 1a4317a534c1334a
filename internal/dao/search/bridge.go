package search

import (
	"wavefeed-backend/internal/core"
	"github.com/sirupsen/logrus"
)

var (
	_ core.FeedSearchService = (*bridgeFeedSearchServant)(nil)
)

type documents struct {
	primaryKey  []string
	docItems    core.DocItems
	identifiers []string
}

// bridgeFeedSearchServant decouples document pushes from the caller: index
// updates are buffered on a channel and applied by a worker pool so a slow
// search engine never blocks the write path.
type bridgeFeedSearchServant struct {
	ts               core.FeedSearchService
	updateDocsCh     chan *documents
	updateDocsTempCh chan *documents
}

func (s *bridgeFeedSearchServant) IndexName() string {
	return s.ts.IndexName()
}

func (s *bridgeFeedSearchServant) AddDocuments(data core.DocItems, primaryKey ...string) (bool, error) {
	s.updateDocs(&documents{
		primaryKey: primaryKey,
		docItems:   data,
	})
	return true, nil
}

func (s *bridgeFeedSearchServant) DeleteDocuments(identifiers []string) error {
	s.updateDocs(&documents{
		identifiers: identifiers,
	})
	return nil
}

func (s *bridgeFeedSearchServant) Search(q *core.QueryReq, offset, limit int) (*core.QueryResp, error) {
	return s.ts.Search(q, offset, limit)
}

func (s *bridgeFeedSearchServant) updateDocs(doc *documents) {
	select {
	case s.updateDocsCh <- doc:
		logrus.Debugln("bridgeFeedSearchServant.updateDocs send document by updateDocsCh")
	default:
		go func(ch chan<- *documents, doc *documents) {
			logrus.Debugln("bridgeFeedSearchServant.updateDocs send document by updateDocsTempCh")
			ch <- doc
		}(s.updateDocsTempCh, doc)
	}
}

func (s *bridgeFeedSearchServant) startUpdateDocs() {
	for {
		select {
		case doc := <-s.updateDocsCh:
			s.handleUpdate(doc)
		case doc := <-s.updateDocsTempCh:
			s.handleUpdate(doc)
		}
	}
}

func (s *bridgeFeedSearchServant) handleUpdate(doc *documents) {
	if len(doc.docItems) > 0 {
		if _, err := s.ts.AddDocuments(doc.docItems, doc.primaryKey...); err != nil {
			logrus.Errorf("bridgeFeedSearchServant.handleUpdate AddDocuments error: %v", err)
		}
	} else if len(doc.identifiers) > 0 {
		if err := s.ts.DeleteDocuments(doc.identifiers); err != nil {
			logrus.Errorf("bridgeFeedSearchServant.handleUpdate DeleteDocuments error: %v", err)
		}
	}
}
