package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListPatientsInput struct{}

type ListStudiesInput struct {
	PatientUID string `json:"patient_uid" jsonschema:"patient identifier"`
}

type ListSeriesInput struct {
	StudyUID string `json:"study_uid" jsonschema:"study instance UID"`
}

type ListFilesInput struct {
	SeriesUID string `json:"series_uid" jsonschema:"series instance UID"`
}

type FileForInstanceInput struct {
	SOPInstanceUID string `json:"sop_instance_uid" jsonschema:"SOP instance UID"`
}

type InstanceValueInput struct {
	SOPInstanceUID string `json:"sop_instance_uid" jsonschema:"SOP instance UID"`
	Tag            string `json:"tag" jsonschema:"tag as GGGG,EEEE hex pair or keyword"`
}

type ListPatientsOutput struct {
	Patients []string `json:"patients"`
}

type ListStudiesOutput struct {
	Studies []string `json:"studies"`
}

type ListSeriesOutput struct {
	Series []string `json:"series"`
}

type ListFilesOutput struct {
	Files []string `json:"files"`
}

type FileForInstanceOutput struct {
	File string `json:"file"`
}

type InstanceValueOutput struct {
	Value string `json:"value"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_patients",
		Description: "List the patients in the database",
	}, s.handleListPatients)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_studies",
		Description: "List the studies of a patient",
	}, s.handleListStudies)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_series",
		Description: "List the series of a study",
	}, s.handleListSeries)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_files",
		Description: "List the files of a series",
	}, s.handleListFiles)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "file_for_instance",
		Description: "Resolve the stored file of a SOP instance",
	}, s.handleFileForInstance)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "instance_value",
		Description: "Read one tag value from an instance's file",
	}, s.handleInstanceValue)
}

func (s *Server) handleListPatients(ctx context.Context, req *sdk.CallToolRequest, input ListPatientsInput) (*sdk.CallToolResult, ListPatientsOutput, error) {
	patients, err := s.db.Patients(ctx)
	if err != nil {
		return nil, ListPatientsOutput{}, err
	}
	return nil, ListPatientsOutput{Patients: patients}, nil
}

func (s *Server) handleListStudies(ctx context.Context, req *sdk.CallToolRequest, input ListStudiesInput) (*sdk.CallToolResult, ListStudiesOutput, error) {
	if input.PatientUID == "" {
		return nil, ListStudiesOutput{}, fmt.Errorf("patient_uid is required")
	}
	studies, err := s.db.StudiesForPatient(ctx, input.PatientUID)
	if err != nil {
		return nil, ListStudiesOutput{}, err
	}
	return nil, ListStudiesOutput{Studies: studies}, nil
}

func (s *Server) handleListSeries(ctx context.Context, req *sdk.CallToolRequest, input ListSeriesInput) (*sdk.CallToolResult, ListSeriesOutput, error) {
	if input.StudyUID == "" {
		return nil, ListSeriesOutput{}, fmt.Errorf("study_uid is required")
	}
	series, err := s.db.SeriesForStudy(ctx, input.StudyUID)
	if err != nil {
		return nil, ListSeriesOutput{}, err
	}
	return nil, ListSeriesOutput{Series: series}, nil
}

func (s *Server) handleListFiles(ctx context.Context, req *sdk.CallToolRequest, input ListFilesInput) (*sdk.CallToolResult, ListFilesOutput, error) {
	if input.SeriesUID == "" {
		return nil, ListFilesOutput{}, fmt.Errorf("series_uid is required")
	}
	files, err := s.db.FilesForSeries(ctx, input.SeriesUID)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}
	return nil, ListFilesOutput{Files: files}, nil
}

func (s *Server) handleFileForInstance(ctx context.Context, req *sdk.CallToolRequest, input FileForInstanceInput) (*sdk.CallToolResult, FileForInstanceOutput, error) {
	if input.SOPInstanceUID == "" {
		return nil, FileForInstanceOutput{}, fmt.Errorf("sop_instance_uid is required")
	}
	file, err := s.db.FileForInstance(ctx, input.SOPInstanceUID)
	if err != nil {
		return nil, FileForInstanceOutput{}, err
	}
	return nil, FileForInstanceOutput{File: file}, nil
}

func (s *Server) handleInstanceValue(ctx context.Context, req *sdk.CallToolRequest, input InstanceValueInput) (*sdk.CallToolResult, InstanceValueOutput, error) {
	if input.SOPInstanceUID == "" {
		return nil, InstanceValueOutput{}, fmt.Errorf("sop_instance_uid is required")
	}
	if input.Tag == "" {
		return nil, InstanceValueOutput{}, fmt.Errorf("tag is required")
	}
	value, err := s.db.InstanceValue(ctx, input.SOPInstanceUID, input.Tag)
	if err != nil {
		return nil, InstanceValueOutput{}, err
	}
	return nil, InstanceValueOutput{Value: value}, nil
}
