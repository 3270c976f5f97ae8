package view

// Control is an element the user can activate: a button or checkbox with a
// data-action, or a submit button of a form.
func Control(n *Node) bool {
	switch n.Tag {
	case "button":
		return n.Attr("data-action") != "" || n.Attr("type") == "submit"
	case "input":
		return n.Attr("type") == "checkbox" && n.Attr("data-action") != ""
	}
	return false
}

// Field is a named form input.
func Field(n *Node) bool {
	switch n.Tag {
	case "input", "textarea", "select":
		return n.Attr("name") != ""
	}
	return false
}

// Controls returns the controls of n in document order.
func Controls(n *Node) []*Node {
	return n.FindAll(Control)
}

// EnclosingForm returns the form n belongs to, or nil.
func EnclosingForm(n *Node) *Node {
	for p := n; p != nil; p = p.parent {
		if p.Tag == "form" {
			return p
		}
	}
	return nil
}

// FormValues collects the values of the named fields of form. A select
// contributes its selected option.
func FormValues(form *Node) map[string]string {
	values := map[string]string{}
	for _, f := range form.FindAll(Field) {
		values[f.Attr("name")] = FieldValue(f)
	}
	return values
}

// FieldValue returns the current value of a form field.
func FieldValue(f *Node) string {
	switch f.Tag {
	case "textarea":
		return f.Text
	case "select":
		if opt := f.Find(ByAttr("selected", "selected")); opt != nil {
			return opt.Attr("value")
		}
		return ""
	}
	return f.Attr("value")
}

// EventFor returns the event raised by activating n. A submit button raises
// the action of its form along with the form values. The ids come from the
// nearest ancestors carrying them.
func EventFor(n *Node) Event {
	ev := Event{Action: n.Attr("data-action")}
	if n.Tag == "form" || (n.Tag == "button" && n.Attr("type") == "submit") {
		if form := EnclosingForm(n); form != nil {
			ev.Action = form.Attr("data-action")
			ev.Form = FormValues(form)
		}
	}

	for p := n; p != nil; p = p.parent {
		if ev.ItemID == "" {
			ev.ItemID = p.Attr("data-item-id")
		}
		if ev.TaskID == "" {
			ev.TaskID = p.Attr("data-task-id")
		}
		if ev.ProjectID == "" {
			ev.ProjectID = p.Attr("data-project-id")
		}
	}
	return ev
}
