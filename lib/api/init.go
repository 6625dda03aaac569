package api

import (
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/protegeproject/webprotege-revision-manager/lib"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/documents"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/revisions"
	"github.com/protegeproject/webprotege-revision-manager/lib/api/stats"
	"github.com/protegeproject/webprotege-revision-manager/lib/ws"
)

func InitAPI(store *lib.InitStore) {
	documents.Init(store)
	revisions.Init(store)
	stats.Init(store)

	store.C.Get("/api/ws", adaptor.HTTPHandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ws.ServeWs(writer, request, store.Hub, store.Logger)
	}))
}
