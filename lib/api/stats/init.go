package stats

import (
	"github.com/protegeproject/webprotege-revision-manager/lib"
)

func Init(store *lib.InitStore) {
	checks := []Checker{
		DBChecker{store.Store},
		RegistryChecker{store.Registry},
		HubChecker{store.Hub},
	}

	store.C.Get("/health", Handler("webprotege-revision-manager", checks))
}
