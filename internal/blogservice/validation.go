package blogservice

import (
	"github.com/netatlas/contenthub/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(common.NotBlank(title), "title", "must be provided")
	v.Check(v.CheckStringLength(title, 3, 120), "title", "must be between 3 and 120 characters long")
}

func validateBodyField(v *common.Validator, content, field string) {
	v.Check(common.NotBlank(content), field, "must be provided")
}

func validateTags(v *common.Validator, tags []string) {
	v.Check(len(tags) <= 10, "tags", "must not contain more than 10 tags")
	for _, tag := range tags {
		if !common.NotBlank(tag) {
			v.AddError("tags", "must not contain blank tags")
			return
		}
	}
}

func validateNote(v *common.Validator, note string) {
	v.Check(common.NotBlank(note), "note", "must be provided")
}

func validateStatus(v *common.Validator, status Status) {
	v.Check(status.Valid(), "status", "must be pending, approved or rejected")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
