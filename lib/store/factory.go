package store

import (
	"github.com/protegeproject/webprotege-revision-manager/lib/change"
	"github.com/protegeproject/webprotege-revision-manager/lib/project"
	"go.uber.org/zap"
)

type Factory struct {
	files      project.ChangeHistoryFiles
	translator change.Translator
	logger     *zap.SugaredLogger
	options    Options
}

func NewFactory(files project.ChangeHistoryFiles, translator change.Translator, logger *zap.SugaredLogger, options Options) *Factory {
	return &Factory{
		files:      files,
		translator: translator,
		logger:     logger,
		options:    options,
	}
}

// CreateStore returns the loaded store for documentID.
func (f *Factory) CreateStore(documentID string) (*Store, error) {
	s, err := NewStore(documentID, f.files, f.translator, f.logger, f.options)
	if err != nil {
		return nil, err
	}
	s.Load()
	return s, nil
}
