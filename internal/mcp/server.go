// Package mcp exposes the catalog's query surface as MCP tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Catalog is the read-only slice of the database the tools serve.
type Catalog interface {
	Patients(ctx context.Context) ([]string, error)
	StudiesForPatient(ctx context.Context, patientUID string) ([]string, error)
	SeriesForStudy(ctx context.Context, studyUID string) ([]string, error)
	FilesForSeries(ctx context.Context, seriesUID string) ([]string, error)
	FileForInstance(ctx context.Context, sopUID string) (string, error)
	InstanceValue(ctx context.Context, sopUID, key string) (string, error)
}

type Server struct {
	db  Catalog
	mcp *sdk.Server
}

func NewServer(db Catalog, version string) *Server {
	s := &Server{
		db: db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "dicomdex",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
