package email

import "fmt"

// BuildUrgentRepairBody builds the HTML body for a high-urgency repair alert
func BuildUrgentRepairBody(jobID, assetName, location, issue string) string {
	loc := location
	if loc == "" {
		loc = "unknown location"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #e53e3e 0%%, #c53030 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Urgent repair request</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">A high-urgency repair request was just submitted and needs immediate triage.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Work order</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600; width: 120px;">Asset</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
			</tr>
			<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600;">Location</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
			</tr>
			<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600;">Reported issue</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
			</tr>
		</table>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This message was sent automatically by the maintenance dashboard.
		</p>
	</div>
</body>
</html>`, jobID, assetName, loc, issue)
}
