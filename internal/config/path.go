package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout     = "layout.html"
	TemplateIndex      = "index.html"
	TemplateComposer   = "composer.html"
	TemplateDrafts     = "drafts.html"
	TemplateSettings   = "settings.html"
	TemplateTranscript = "transcript.html"
	TemplatePreview    = "preview.html"
	TemplateDraftList  = "draft_list.html"
)
