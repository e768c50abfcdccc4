// Package stepxml converts test case steps to and from the XML document
// stored in the Microsoft.VSTS.TCM.Steps work item field.
//
// The stored format looks like:
//
//	<steps id="0" last="2">
//	  <step id="1" type="ActionStep">
//	    <parameterizedString isformatted="true">Open the login page</parameterizedString>
//	    <parameterizedString isformatted="true">Login form is shown</parameterizedString>
//	    <description/>
//	  </step>
//	  ...
//	</steps>
//
// Values are HTML, so text such as "Enter <username>" is stored as
// "Enter &amp;lt;username&amp;gt;". Serialize always emits this shape. Parse is tolerant: it accepts
// self-closing values, HTML-formatted step text and unknown attributes, and
// degrades to an empty step list instead of failing.
package stepxml
