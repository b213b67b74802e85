// Package notice holds the user facing messages that operations return
// alongside their results.
package notice

// Level classifies a notice for display.
type Level string

const (
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
	Info    Level = "info"
)

// Notice is a transient, user visible message.
type Notice struct {
	Level   Level  `json:"type"`
	Message string `json:"message"`
}

const (
	msgBranchLoaded = "تم تحميل بيانات الفرع: "
	msgLastRow      = "لا يمكن حذف الصف الأخير"
	msgLastExpense  = "لا يمكن حذف آخر مصروف في الصف"
	msgCleared      = "تم مسح الجدول بنجاح"
	msgNoData       = "يرجى إدخال بعض البيانات أولاً"
	msgPreview      = "تم إنشاء المعاينة بنجاح"
	msgPDFCreated   = "تم إنشاء ملف PDF بنجاح!"
	msgPDFFailed    = "حدث خطأ أثناء إنشاء ملف PDF. يرجى المحاولة مرة أخرى."
	msgCSVExported  = "تم تصدير ملف Excel بنجاح!"

	msgPDFInProgress = "جاري إنشاء PDF..."
)

func BranchLoaded(branch string) Notice {
	return Notice{Level: Info, Message: msgBranchLoaded + branch}
}

func LastRow() Notice     { return Notice{Level: Warning, Message: msgLastRow} }
func LastExpense() Notice { return Notice{Level: Warning, Message: msgLastExpense} }
func Cleared() Notice     { return Notice{Level: Success, Message: msgCleared} }
func NoData() Notice      { return Notice{Level: Warning, Message: msgNoData} }
func Preview() Notice     { return Notice{Level: Success, Message: msgPreview} }
func PDFCreated() Notice  { return Notice{Level: Success, Message: msgPDFCreated} }
func PDFFailed() Notice   { return Notice{Level: Error, Message: msgPDFFailed} }
func Exported() Notice    { return Notice{Level: Success, Message: msgCSVExported} }

// PDFInProgress is returned while an earlier PDF export is still running.
func PDFInProgress() Notice { return Notice{Level: Info, Message: msgPDFInProgress} }
