package assess

import (
	"time"

	"github.com/abhisek/aquasafe/internal/analyzer"
	"github.com/abhisek/aquasafe/internal/report"
)

// assessedMsg is sent when the analyzer has decided on a sample.
type assessedMsg struct {
	Run        int
	Assessment *analyzer.Assessment
	Err        error
}

// reportReadyMsg is sent when the advisory report finished, successfully or not.
type reportReadyMsg struct {
	Run    int
	Report *report.Report
	Err    error
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
