package dicomtag

import "github.com/suyashkumar/dicom/pkg/tag"

// Attributes the catalog extracts when indexing a dataset.
var (
	PatientID        = FromLib(tag.PatientID)
	PatientName      = FromLib(tag.PatientName)
	PatientBirthDate = FromLib(tag.PatientBirthDate)
	PatientSex       = FromLib(tag.PatientSex)

	StudyInstanceUID = FromLib(tag.StudyInstanceUID)
	StudyID          = FromLib(tag.StudyID)
	StudyDate        = FromLib(tag.StudyDate)
	StudyTime        = FromLib(tag.StudyTime)
	AccessionNumber  = FromLib(tag.AccessionNumber)
	StudyDescription = FromLib(tag.StudyDescription)

	SeriesInstanceUID = FromLib(tag.SeriesInstanceUID)
	SeriesNumber      = FromLib(tag.SeriesNumber)
	Modality          = FromLib(tag.Modality)
	SeriesDescription = FromLib(tag.SeriesDescription)
	BodyPartExamined  = FromLib(tag.BodyPartExamined)

	SOPInstanceUID = FromLib(tag.SOPInstanceUID)
	SOPClassUID    = FromLib(tag.SOPClassUID)
	InstanceNumber = FromLib(tag.InstanceNumber)
)
