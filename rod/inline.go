package rod

// inlineScript runs inside the page and replaces externally-loaded resources
// with inline equivalents: stylesheet <link> elements become <style> elements
// carrying the fetched CSS, and <img> src attributes are rewritten to base64
// data URIs. One resource's failure never aborts inlining of the others; the
// failed resource is left untouched and its URL is reported back.
//
// The function is async and only resolves once every resource fetch has
// settled, so evaluating it with an awaited promise guarantees the document
// is stable before serialization. No fixed post-inlining delay is needed.
const inlineScript = `async () => {
	const failures = [];
	let stylesheets = 0;
	let images = 0;

	for (const link of Array.from(document.querySelectorAll('link[rel="stylesheet"]'))) {
		try {
			const response = await fetch(link.href);
			if (!response.ok) {
				throw new Error('HTTP ' + response.status);
			}
			const cssText = await response.text();
			const style = document.createElement('style');
			style.textContent = cssText;
			link.parentNode.insertBefore(style, link);
			link.remove();
			stylesheets++;
		} catch (err) {
			failures.push(link.href);
		}
	}

	for (const img of Array.from(document.querySelectorAll('img'))) {
		if (!img.src || img.src.startsWith('data:')) {
			continue;
		}
		try {
			const response = await fetch(img.src);
			if (!response.ok) {
				throw new Error('HTTP ' + response.status);
			}
			const blob = await response.blob();
			const dataURI = await new Promise((resolve, reject) => {
				const reader = new FileReader();
				reader.onloadend = () => resolve(reader.result);
				reader.onerror = () => reject(reader.error);
				reader.readAsDataURL(blob);
			});
			img.src = dataURI;
			images++;
		} catch (err) {
			failures.push(img.src);
		}
	}

	return { stylesheets: stylesheets, images: images, failures: failures };
}`

// inlineResult mirrors the object returned by inlineScript.
type inlineResult struct {
	Stylesheets int      `json:"stylesheets"`
	Images      int      `json:"images"`
	Failures    []string `json:"failures"`
}
