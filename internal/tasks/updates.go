package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

type Phase int

const (
	FetchCourses Phase = iota
	StoreCourses
	FetchFavourites
	FetchAdmin
	ExportCollection
)

func (p Phase) String() string {
	switch p {
	case FetchCourses:
		return "fetch_courses"
	case StoreCourses:
		return "store_courses"
	case FetchFavourites:
		return "fetch_favourites"
	case FetchAdmin:
		return "fetch_admin"
	case ExportCollection:
		return "export_collection"
	default:
		return ""
	}
}

func fetchCoursesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{Phase: FetchCourses, Step: step, Total: total, Message: "Fetching courses..."}
}

func storeCoursesUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreCourses,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %d courses...", count),
	}
}

func syncCompletedUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreCourses,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Cached %d of %d courses", result.Stored, result.Fetched),
		Data:    result,
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{Phase: endpoint.phase, Step: step, Total: total, Message: endpoint.message}
}

func exportingCollectionUpdate(step, total int, c Collection, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s (%d courses)...", step, total, c, count),
	}
}

func exportCompletedUpdate(step, total int, res CollectionExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s -> %s", step, total, res.Collection, res.File),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res CollectionExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Collection, res.Error),
		Data:    res,
	}
}
