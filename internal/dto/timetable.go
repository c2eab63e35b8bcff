package dto

// ── Courses ──

// CreateCourseRequest create course.
type CreateCourseRequest struct {
	Name       string `json:"name"       binding:"required,max=160"`
	Department string `json:"department" binding:"required,max=80"`
	Semester   int    `json:"semester"   binding:"required,min=1,max=8"`
}

// CourseResponse course.
type CourseResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
}

// ── Timetable ──

// CreateTimetableSlotRequest create slot.
type CreateTimetableSlotRequest struct {
	CourseID  int64  `json:"course_id"  binding:"required,min=1"`
	FacultyID int64  `json:"faculty_id" binding:"required,min=1"`
	Day       string `json:"day"        binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time"   binding:"required,clock"`
}

// TimetableSlotResponse slot with names.
type TimetableSlotResponse struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	CourseName  string `json:"course_name"`
	FacultyID   int64  `json:"faculty_id"`
	FacultyName string `json:"faculty_name"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// ── Exams ──

// CreateExamRequest create exam.
type CreateExamRequest struct {
	CourseID  int64  `json:"course_id"  binding:"required,min=1"`
	ExamDate  string `json:"exam_date"  binding:"required,isodate"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time"   binding:"required,clock"`
	Hall      string `json:"hall"       binding:"required,max=80"`
}

// ExamResponse exam with course name.
type ExamResponse struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
	ExamDate   string `json:"exam_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Hall       string `json:"hall"`
}

// StudentExamsResponse exam list with the next upcoming one.
type StudentExamsResponse struct {
	Exams    []ExamResponse `json:"exams"`
	NextExam *ExamResponse  `json:"next_exam"`
}
