package requestinfo

// Each enum type below only decodes codes present in its table.

type ModeOfTraining string

func (v ModeOfTraining) Code() Code { return describe(ModesOfTraining, string(v)) }

func (v ModeOfTraining) Valid() bool { return ModesOfTraining.Contains(string(v)) }

func (v *ModeOfTraining) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, ModesOfTraining, (*string)(v))
}

type IDType string

func (v IDType) Code() Code { return describe(IDTypes, string(v)) }

func (v IDType) Valid() bool { return IDTypes.Contains(string(v)) }

func (v *IDType) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, IDTypes, (*string)(v))
}

type Salutation string

func (v Salutation) Code() Code { return describe(Salutations, string(v)) }

func (v Salutation) Valid() bool { return Salutations.Contains(string(v)) }

func (v *Salutation) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, Salutations, (*string)(v))
}

type Vacancy string

func (v Vacancy) Code() Code { return describe(Vacancies, string(v)) }

func (v Vacancy) Valid() bool { return Vacancies.Contains(string(v)) }

func (v *Vacancy) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, Vacancies, (*string)(v))
}

type TrainerRole string

func (v TrainerRole) Code() Code { return describe(TrainerRoles, string(v)) }

func (v TrainerRole) Valid() bool { return TrainerRoles.Contains(string(v)) }

func (v *TrainerRole) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, TrainerRoles, (*string)(v))
}

type TrainerType string

func (v TrainerType) Code() Code { return describe(TrainerTypes, string(v)) }

func (v TrainerType) Valid() bool { return TrainerTypes.Contains(string(v)) }

func (v *TrainerType) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, TrainerTypes, (*string)(v))
}

type ScheduleInfoType string

func (v ScheduleInfoType) Code() Code { return describe(ScheduleInfoTypes, string(v)) }

func (v ScheduleInfoType) Valid() bool { return ScheduleInfoTypes.Contains(string(v)) }

func (v *ScheduleInfoType) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, ScheduleInfoTypes, (*string)(v))
}

type QualificationLevel string

func (v QualificationLevel) Code() Code { return describe(QualificationLevels, string(v)) }

func (v QualificationLevel) Valid() bool { return QualificationLevels.Contains(string(v)) }

func (v *QualificationLevel) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, QualificationLevels, (*string)(v))
}

type TraineeIDType string

func (v TraineeIDType) Code() Code { return describe(TraineeIDTypes, string(v)) }

func (v TraineeIDType) Valid() bool { return TraineeIDTypes.Contains(string(v)) }

func (v *TraineeIDType) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, TraineeIDTypes, (*string)(v))
}

type SponsorshipType string

func (v SponsorshipType) Code() Code { return describe(SponsorshipTypes, string(v)) }

func (v SponsorshipType) Valid() bool { return SponsorshipTypes.Contains(string(v)) }

func (v *SponsorshipType) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, SponsorshipTypes, (*string)(v))
}

type CollectionStatus string

func (v CollectionStatus) Code() Code { return describe(CollectionStatuses, string(v)) }

func (v CollectionStatus) Valid() bool { return CollectionStatuses.Contains(string(v)) }

func (v *CollectionStatus) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, CollectionStatuses, (*string)(v))
}

type EnrolmentStatus string

func (v EnrolmentStatus) Code() Code { return describe(EnrolmentStatuses, string(v)) }

func (v EnrolmentStatus) Valid() bool { return EnrolmentStatuses.Contains(string(v)) }

func (v *EnrolmentStatus) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, EnrolmentStatuses, (*string)(v))
}

type AssessmentResult string

func (v AssessmentResult) Code() Code { return describe(AssessmentResults, string(v)) }

func (v AssessmentResult) Valid() bool { return AssessmentResults.Contains(string(v)) }

func (v *AssessmentResult) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, AssessmentResults, (*string)(v))
}

type Grade string

func (v Grade) Code() Code { return describe(Grades, string(v)) }

func (v Grade) Valid() bool { return Grades.Contains(string(v)) }

func (v *Grade) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, Grades, (*string)(v))
}

type AssessmentAction string

func (v AssessmentAction) Code() Code { return describe(AssessmentActions, string(v)) }

func (v AssessmentAction) Valid() bool { return AssessmentActions.Contains(string(v)) }

func (v *AssessmentAction) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, AssessmentActions, (*string)(v))
}

type AttendanceStatus string

func (v AttendanceStatus) Code() Code { return describe(AttendanceStatuses, string(v)) }

func (v AttendanceStatus) Valid() bool { return AttendanceStatuses.Contains(string(v)) }

func (v *AttendanceStatus) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, AttendanceStatuses, (*string)(v))
}

type SurveyLanguage string

func (v SurveyLanguage) Code() Code { return describe(SurveyLanguages, string(v)) }

func (v SurveyLanguage) Valid() bool { return SurveyLanguages.Contains(string(v)) }

func (v *SurveyLanguage) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, SurveyLanguages, (*string)(v))
}

type CancelClaimCode string

func (v CancelClaimCode) Code() Code { return describe(CancelClaimCodes, string(v)) }

func (v CancelClaimCode) Valid() bool { return CancelClaimCodes.Contains(string(v)) }

func (v *CancelClaimCode) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, CancelClaimCodes, (*string)(v))
}

type SortOrder string

func (v SortOrder) Code() Code { return describe(SortOrders, string(v)) }

func (v SortOrder) Valid() bool { return SortOrders.Contains(string(v)) }

func (v *SortOrder) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, SortOrders, (*string)(v))
}

type SortField string

func (v SortField) Code() Code { return describe(SortFields, string(v)) }

func (v SortField) Valid() bool { return SortFields.Contains(string(v)) }

func (v *SortField) UnmarshalJSON(b []byte) error {
	return decodeEnum(b, SortFields, (*string)(v))
}
